package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/domain/sis"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

func sisRecord(cand uuid.UUID, base int64, qid int64, section string, idx int, item, payload string) repository.ResponseRecord {
	return repository.ResponseRecord{
		CandidateID:         cand,
		QuestionnaireID:     base + 100,
		BaseQuestionnaireID: base,
		Question: assessment.Question{
			ID:           qid,
			Text:         item,
			Type:         response.TypeSIS,
			SectionName:  section,
			SectionIndex: idx,
		},
		Payload: json.RawMessage(payload),
	}
}

func newSISFixture(cand uuid.UUID, recs ...repository.ResponseRecord) (*mockCandidateRepo, *mockResponseRepo, *mockSISCatalog) {
	return &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{cand: {ID: cand}}},
		&mockResponseRepo{records: recs},
		&mockSISCatalog{}
}

func TestSISUsecase_SummarizeSIS(t *testing.T) {
	cand := uuid.New()
	cands, resps, catalog := newSISFixture(cand,
		sisRecord(cand, 1, 10, "Home Life", 1, "Usar el baño", `{"frequency":2,"support_time":3,"support_type":2,"subitems":[7]}`),
		sisRecord(cand, 1, 11, "Home Life", 1, "Preparar comida", `{"frequency":4,"support_time":4,"support_type":3}`),
		sisRecord(cand, 1, 12, "Home Life", 1, "Roto", `"not an object"`),
	)
	catalog.subitems = map[int64]sis.Subitem{7: {ID: 7, Text: "Lavarse las manos", Aids: []sis.Aid{{ID: 1, Description: "Pictograma"}}}}

	uc := NewSISUsecase(cands, resps, catalog, nil)
	got, err := uc.SummarizeSIS(context.Background(), cand, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got))
	}
	s := got[0]
	if s.TotalFrequency != 6 || s.TotalSupportTime != 7 || s.TotalSupportType != 5 || s.TotalGeneral != 18 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if len(s.Aids) != 1 || s.Aids[0].ItemName != "Usar el baño" {
		t.Fatalf("unexpected aids: %+v", s.Aids)
	}
	if len(resps.lastFilter.Types) != 2 {
		t.Fatalf("expected sis type filter, got %+v", resps.lastFilter)
	}
}

func TestSISUsecase_CandidateNotFound(t *testing.T) {
	uc := NewSISUsecase(&mockCandidateRepo{}, &mockResponseRepo{}, &mockSISCatalog{}, nil)
	_, err := uc.SummarizeSIS(context.Background(), uuid.New(), "")
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}

	_, err = uc.SummarizeSIS(context.Background(), uuid.Nil, "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSISUsecase_StoreErrorPropagates(t *testing.T) {
	cand := uuid.New()
	cands, resps, catalog := newSISFixture(cand)
	resps.err = errors.New("connection reset")

	uc := NewSISUsecase(cands, resps, catalog, nil)
	_, err := uc.SummarizeSIS(context.Background(), cand, "")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if !errors.Is(err, resps.err) {
		t.Fatalf("cause should stay in the chain: %v", err)
	}
}

func TestEvaluationUsecase_Evaluate(t *testing.T) {
	cand := uuid.New()
	cands, resps, catalog := newSISFixture(cand,
		sisRecord(cand, 1, 10, "Home Life", 1, "a", `{"frequency":2,"support_time":3,"support_type":3}`),
		sisRecord(cand, 1, 11, "Community", 2, "b", `{"frequency":4,"support_time":4,"support_type":4}`),
		sisRecord(cand, 1, 12, "Health", 3, "c", `{"frequency":1}`),
		sisRecord(cand, 9, 13, "Home Life", 1, "other base", `{"frequency":4,"support_time":4,"support_type":4}`),
	)
	catalog.rows = []sis.PercentileRow{
		{SectionName: "Home Life", DirectInterval: "6-10", StandardScore: 9, PercentileInterval: "37"},
		{SectionName: "Community", DirectInterval: ">10", StandardScore: 12, PercentileInterval: "75"},
	}
	catalog.index = []sis.SupportIndexRow{{TotalStandardSum: 21, Percentile: "60", SupportNeedsIndex: 104}}

	s := NewSISUsecase(cands, resps, catalog, nil)
	uc := NewEvaluationUsecase(s, catalog, nil)

	rep, err := uc.Evaluate(context.Background(), cand)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(catalog.bases) != 1 || catalog.bases[0] != 1 {
		t.Fatalf("expected base 1 table, got %v", catalog.bases)
	}
	if len(rep.PerSectionDetails) != 3 {
		t.Fatalf("expected 3 sections, got %+v", rep.PerSectionDetails)
	}
	if rep.PerSectionDetails[0].DirectScore != 8 {
		t.Fatalf("other base must be ignored: %+v", rep.PerSectionDetails[0])
	}
	if rep.GlobalSummary.TotalStandardSum != 21 || rep.GlobalSummary.SupportNeedsIndex == nil || *rep.GlobalSummary.SupportNeedsIndex != 104 {
		t.Fatalf("unexpected global summary: %+v", rep.GlobalSummary)
	}
	if rep.PerSectionDetails[2].HasScore {
		t.Fatalf("section without table must be unscored")
	}
}

func TestEvaluationUsecase_NoResponses(t *testing.T) {
	cand := uuid.New()
	cands, resps, catalog := newSISFixture(cand)
	uc := NewEvaluationUsecase(NewSISUsecase(cands, resps, catalog, nil), catalog, nil)

	rep, err := uc.Evaluate(context.Background(), cand)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rep.PerSectionDetails) != 0 || rep.GlobalSummary.TotalStandardSum != 0 || rep.GlobalSummary.SupportNeedsIndex != nil {
		t.Fatalf("expected empty report, got %+v", rep)
	}

	rep, err = uc.WithDefaultBase(7).Evaluate(context.Background(), cand)
	if err != nil || rep.GlobalSummary.BaseQuestionnaireID != 7 {
		t.Fatalf("default base not reported: %+v, %v", rep.GlobalSummary, err)
	}
}

func TestEvaluationUsecase_EvaluateBatch(t *testing.T) {
	a, b, missing := uuid.New(), uuid.New(), uuid.New()
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{a: {ID: a}, b: {ID: b}}}
	resps := &mockResponseRepo{records: []repository.ResponseRecord{
		sisRecord(a, 1, 10, "Home Life", 1, "x", `{"frequency":1}`),
	}}
	catalog := &mockSISCatalog{}
	uc := NewEvaluationUsecase(NewSISUsecase(cands, resps, catalog, nil), catalog, nil)

	res := uc.EvaluateBatch(context.Background(), []uuid.UUID{a, missing, b}, BatchOptions{Workers: 2})
	if len(res) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res))
	}
	if res[0].CandidateID != a || res[0].Err != nil {
		t.Fatalf("unexpected first result: %+v", res[0])
	}
	if !errors.Is(res[1].Err, ErrCandidateNotFound) {
		t.Fatalf("expected not found for missing candidate, got %v", res[1].Err)
	}
	if res[2].CandidateID != b || res[2].Err != nil {
		t.Fatalf("unexpected third result: %+v", res[2])
	}
}
