package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

func newResponseFixture(cand uuid.UUID) (*mockCandidateRepo, *mockResponseRepo) {
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{cand: {ID: cand, Stage: candidate.StageEntrevista}}}
	resps := &mockResponseRepo{
		questions: map[int64]assessment.Question{
			5: {ID: 5, QuestionnaireID: 2, Text: "¿Trabajó antes?", Type: response.TypeBinary},
			6: {ID: 6, QuestionnaireID: 2, Text: "Turno", Type: response.TypeMultiple},
		},
		options: map[int64][]response.Option{
			5: {{ID: 50, Text: "Sí", Valor: 1}, {ID: 51, Text: "No", Valor: 0}},
			6: {{ID: 60, Text: "Matutino", Valor: 1}, {ID: 61, Text: "Vespertino", Valor: 2}},
		},
		questionnaires: map[int64]assessment.Questionnaire{2: {ID: 2, UnlockStage: string(candidate.StageEntrevista)}},
		writeResult:    repository.WriteResult{Status: assessment.StatusInProgress},
	}
	return cands, resps
}

func TestResponseUsecase_WriteResponse(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	resps.writeResult.Removed = []int64{7, 8}
	uc := NewResponseUsecase(cands, resps, nil)

	out, err := uc.WriteResponse(context.Background(), cand, 5, json.RawMessage(`"Sí"`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resps.writes) != 1 {
		t.Fatalf("expected one write, got %d", len(resps.writes))
	}
	w := resps.writes[0]
	if w.QuestionnaireID != 2 || w.QuestionID != 5 || w.Payload == nil {
		t.Fatalf("unexpected write request: %+v", w)
	}
	if !w.Selected.Has(50) || len(w.Selected) != 1 {
		t.Fatalf("expected option 50 selected, got %v", w.Selected.IDs())
	}
	if out.Status != assessment.StatusInProgress || len(out.Removed) != 2 || out.Value.Kind != response.KindFlag {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if w.Empty {
		t.Fatalf("a yes answer is not empty")
	}

	again, err := uc.WriteResponse(context.Background(), cand, 5, json.RawMessage(`"Sí"`))
	if err != nil {
		t.Fatalf("repeat write: unexpected err: %v", err)
	}
	if len(resps.writes) != 2 {
		t.Fatalf("expected two writes, got %d", len(resps.writes))
	}
	w2 := resps.writes[1]
	if string(w2.Payload) != string(w.Payload) || w2.Empty != w.Empty || len(w2.Selected) != 1 || !w2.Selected.Has(50) {
		t.Fatalf("repeat write must send the same request: %+v vs %+v", w2, w)
	}
	if again.Status != out.Status || again.Value.Kind != out.Value.Kind || again.Value.Flag != out.Value.Flag || len(again.Removed) != len(out.Removed) {
		t.Fatalf("repeat write changed the outcome: %+v vs %+v", again, out)
	}
}

func TestResponseUsecase_WriteResponse_EmptyAnswer(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	uc := NewResponseUsecase(cands, resps, nil)

	if _, err := uc.WriteResponse(context.Background(), cand, 6, json.RawMessage(`""`)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	w := resps.writes[0]
	if w.Payload == nil || !w.Empty || len(w.Selected) != 0 {
		t.Fatalf("expected a stored empty answer, got %+v", w)
	}
}

func TestResponseUsecase_WriteResponse_ChoiceSelectsByValor(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	uc := NewResponseUsecase(cands, resps, nil)

	if _, err := uc.WriteResponse(context.Background(), cand, 6, json.RawMessage(`{"valor": 2}`)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sel := resps.writes[0].Selected; !sel.Has(61) || len(sel) != 1 {
		t.Fatalf("expected option 61 selected, got %v", sel.IDs())
	}
}

func TestResponseUsecase_WriteResponse_NullDeletes(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	uc := NewResponseUsecase(cands, resps, nil)

	for _, p := range []string{`null`, ` `, ``} {
		if _, err := uc.WriteResponse(context.Background(), cand, 6, json.RawMessage(p)); err != nil {
			t.Fatalf("payload %q: unexpected err: %v", p, err)
		}
	}
	for i, w := range resps.writes {
		if w.Payload != nil || len(w.Selected) != 0 {
			t.Fatalf("write %d should be a deletion: %+v", i, w)
		}
	}
}

func TestResponseUsecase_WriteResponse_Errors(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	uc := NewResponseUsecase(cands, resps, nil)
	ctx := context.Background()

	if _, err := uc.WriteResponse(ctx, cand, 6, json.RawMessage(`{broken`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.WriteResponse(ctx, cand, 404, json.RawMessage(`1`)); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if _, err := uc.WriteResponse(ctx, uuid.New(), 6, json.RawMessage(`1`)); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
	resps.err = errors.New("deadlock detected")
	if _, err := uc.WriteResponse(ctx, cand, 6, json.RawMessage(`1`)); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestResponseUsecase_Finalize(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	resps.finalizeResult = repository.FinalizeResult{
		Status:   assessment.StatusFinalized,
		Stage:    candidate.StageCapacitacion,
		Advanced: true,
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := NewResponseUsecase(cands, resps, nil)
	uc.now = func() time.Time { return fixed }

	res, err := uc.Finalize(context.Background(), cand, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !resps.finalized.Equal(fixed) || !res.FinalizedAt.Equal(fixed) {
		t.Fatalf("finalize should use the clock: %v", resps.finalized)
	}
	if res.Status != assessment.StatusFinalized || !res.Advanced || res.Stage != candidate.StageCapacitacion {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := uc.Finalize(context.Background(), cand, 77); !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Fatalf("expected ErrQuestionnaireNotFound, got %v", err)
	}
}

func TestResponseUsecase_Status(t *testing.T) {
	cand := uuid.New()
	cands, resps := newResponseFixture(cand)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	resps.statuses = map[int64]assessment.TrackedStatus{
		2: {CandidateID: cand, QuestionnaireID: 2, Status: assessment.StatusFinalized, FinalizedAt: &at},
	}
	resps.questionnaires[3] = assessment.Questionnaire{ID: 3}
	uc := NewResponseUsecase(cands, resps, nil)
	ctx := context.Background()

	st, err := uc.Status(ctx, cand, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.Status != assessment.StatusFinalized || st.FinalizedAt == nil || !st.FinalizedAt.Equal(at) {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st, err := uc.Status(ctx, cand, 3); err != nil || st.Status != assessment.StatusInactive {
		t.Fatalf("untouched questionnaire should be inactive: %+v, %v", st, err)
	}

	if _, err := uc.Status(ctx, cand, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.Status(ctx, uuid.New(), 2); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
	if _, err := uc.Status(ctx, cand, 77); !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Fatalf("expected ErrQuestionnaireNotFound, got %v", err)
	}
	resps.err = errors.New("connection reset")
	if _, err := uc.Status(ctx, cand, 2); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
