package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

type WriteOutcome struct {
	QuestionnaireID int64
	QuestionID      int64
	Status          assessment.Status
	Value           response.Value
	Removed         []int64
}

type ResponseUsecase interface {
	WriteResponse(ctx context.Context, candidateID uuid.UUID, questionID int64, payload json.RawMessage) (WriteOutcome, error)
	Finalize(ctx context.Context, candidateID uuid.UUID, questionnaireID int64) (repository.FinalizeResult, error)
	Status(ctx context.Context, candidateID uuid.UUID, questionnaireID int64) (assessment.TrackedStatus, error)
}

type Response struct {
	candidates repository.CandidateRepository
	responses  repository.ResponseRepository
	decoder    *response.Decoder
	now        func() time.Time
	log        *logger.Logger
}

func NewResponseUsecase(candidates repository.CandidateRepository, responses repository.ResponseRepository, log *logger.Logger) *Response {
	log = logger.OrNop(log)
	return &Response{
		candidates: candidates,
		responses:  responses,
		decoder:    response.NewDecoder(log),
		now:        time.Now,
		log:        log,
	}
}

// WriteResponse stores the payload for the question, or removes the response
// when the payload is empty or JSON null. The store applies the unlock
// cascade in the same transaction. Writing the same payload twice leaves the
// store unchanged.
func (u *Response) WriteResponse(ctx context.Context, candidateID uuid.UUID, questionID int64, payload json.RawMessage) (WriteOutcome, error) {
	if candidateID == uuid.Nil || questionID <= 0 {
		return WriteOutcome{}, ErrInvalidInput
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) > 0 && !json.Valid(payload) {
		return WriteOutcome{}, ErrInvalidInput
	}
	if bytes.Equal(payload, []byte("null")) || len(payload) == 0 {
		payload = nil
	}

	if _, err := u.candidates.GetCandidate(ctx, candidateID); err != nil {
		return WriteOutcome{}, notFound("get candidate", err, ErrCandidateNotFound)
	}
	q, err := u.responses.GetQuestion(ctx, questionID)
	if err != nil {
		return WriteOutcome{}, notFound("get question", err, ErrQuestionNotFound)
	}

	req := repository.WriteRequest{
		CandidateID:     candidateID,
		QuestionnaireID: q.QuestionnaireID,
		QuestionID:      q.ID,
		Payload:         payload,
		Selected:        assessment.OptionSet{},
	}
	out := WriteOutcome{QuestionnaireID: q.QuestionnaireID, QuestionID: q.ID, Value: response.None()}

	if payload != nil {
		opts, err := u.responses.GetOptions(ctx, []int64{q.ID})
		if err != nil {
			return WriteOutcome{}, storeErr("get options", err)
		}
		out.Value = u.decoder.For(q.ID).DecodeJSON(q.Type, payload, opts[q.ID])
		req.Selected = assessment.Selected(out.Value, opts[q.ID])
		req.Empty = out.Value.IsEmpty()
	}

	res, err := u.responses.WriteResponse(ctx, req)
	if err != nil {
		return WriteOutcome{}, storeErr("write response", err)
	}
	if len(res.Removed) > 0 {
		u.log.Info("unlock cascade removed responses",
			"candidate_id", candidateID, "question_id", q.ID, "removed", res.Removed)
	}

	out.Status = res.Status
	out.Removed = res.Removed
	return out, nil
}

// Finalize closes the questionnaire for the candidate and advances the
// candidate's stage when the questionnaire gates it.
func (u *Response) Finalize(ctx context.Context, candidateID uuid.UUID, questionnaireID int64) (repository.FinalizeResult, error) {
	if candidateID == uuid.Nil || questionnaireID <= 0 {
		return repository.FinalizeResult{}, ErrInvalidInput
	}
	if _, err := u.candidates.GetCandidate(ctx, candidateID); err != nil {
		return repository.FinalizeResult{}, notFound("get candidate", err, ErrCandidateNotFound)
	}
	if _, err := u.responses.GetQuestionnaire(ctx, questionnaireID); err != nil {
		return repository.FinalizeResult{}, notFound("get questionnaire", err, ErrQuestionnaireNotFound)
	}

	res, err := u.responses.Finalize(ctx, candidateID, questionnaireID, u.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return repository.FinalizeResult{}, ErrCandidateNotFound
	}
	if err != nil {
		return repository.FinalizeResult{}, storeErr("finalize", err)
	}
	if res.Advanced {
		u.log.Info("candidate advanced", "candidate_id", candidateID, "stage", string(res.Stage))
	}
	return res, nil
}

// Status reports where the candidate stands on the questionnaire. A
// questionnaire never touched reads as inactive.
func (u *Response) Status(ctx context.Context, candidateID uuid.UUID, questionnaireID int64) (assessment.TrackedStatus, error) {
	if candidateID == uuid.Nil || questionnaireID <= 0 {
		return assessment.TrackedStatus{}, ErrInvalidInput
	}
	if _, err := u.candidates.GetCandidate(ctx, candidateID); err != nil {
		return assessment.TrackedStatus{}, notFound("get candidate", err, ErrCandidateNotFound)
	}
	if _, err := u.responses.GetQuestionnaire(ctx, questionnaireID); err != nil {
		return assessment.TrackedStatus{}, notFound("get questionnaire", err, ErrQuestionnaireNotFound)
	}
	st, err := u.responses.GetStatus(ctx, candidateID, questionnaireID)
	if err != nil {
		return assessment.TrackedStatus{}, storeErr("get status", err)
	}
	return st, nil
}
