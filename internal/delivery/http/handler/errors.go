package handler

import (
	"errors"
	"strconv"

	"inclusion-engine/internal/delivery/http/dto"
	"inclusion-engine/internal/delivery/http/middleware"
	"inclusion-engine/internal/pkg/response"
	"inclusion-engine/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrQuestionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Question not found", nil, err)
	case errors.Is(err, usecase.ErrQuestionnaireNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Questionnaire not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func validationError(v any) error {
	fields, err := dto.Validate(v)
	if err == nil {
		return nil
	}
	return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", fields, err)
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

func int64Param(c fiber.Ctx, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return n, nil
}
