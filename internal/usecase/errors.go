package usecase

import (
	"errors"
	"fmt"

	"inclusion-engine/internal/repository"
)

var (
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrJobNotFound           = errors.New("job not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInternal              = errors.New("internal error")
)

// storeErr wraps a data-store failure so callers can match ErrInternal while
// the cause stays in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// notFound translates repository.ErrNotFound into the given sentinel.
func notFound(op string, err error, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return storeErr(op, err)
}
