// Package assessment holds the questionnaire lifecycle: per-candidate status
// transitions and the unlock graph that decides which responses a write
// invalidates.
package assessment

import (
	"errors"
	"time"

	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/response"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("questionnaire not found")

type Status string

const (
	StatusInactive   Status = "inactive"
	StatusInProgress Status = "in_progress"
	StatusFinalized  Status = "finalized"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInactive, StatusInProgress, StatusFinalized:
		return true
	}
	return false
}

type Event int

const (
	// EventAnswered: a non-empty response was stored.
	EventAnswered Event = iota
	// EventCleared: the last response of the questionnaire was removed.
	EventCleared
	EventFinalized
)

// Transition applies e to s. A finalized questionnaire only leaves that state
// through an explicit finalize, which is idempotent.
func Transition(s Status, e Event) Status {
	if s == "" {
		s = StatusInactive
	}
	switch e {
	case EventFinalized:
		return StatusFinalized
	case EventAnswered:
		if s == StatusInactive {
			return StatusInProgress
		}
	case EventCleared:
		if s == StatusInProgress {
			return StatusInactive
		}
	}
	return s
}

type Questionnaire struct {
	ID                  int64
	BaseQuestionnaireID int64
	Name                string
	UnlockStage         string
}

// TrackedStatus is the persisted status of one (candidate, questionnaire).
type TrackedStatus struct {
	CandidateID     uuid.UUID
	QuestionnaireID int64
	Status          Status
	FinalizedAt     *time.Time
	UpdatedAt       time.Time
}

type Question struct {
	ID              int64
	QuestionnaireID int64
	Text            string
	Type            response.QuestionType
	SectionName     string
	SectionIndex    int
	UnlockRules     []UnlockRule
}

// UnlocksNextStage reports whether finalizing q moves a candidate currently in
// stage forward.
func UnlocksNextStage(q Questionnaire, stage candidate.Stage) bool {
	if q.UnlockStage == "" {
		return false
	}
	return stage.Is(candidate.Stage(q.UnlockStage))
}
