package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inclusion-engine/internal/domain/aid"
	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

func levelOptions() []response.Option {
	out := make([]response.Option, 0, 5)
	for v := 0; v <= 4; v++ {
		out = append(out, response.Option{ID: 100 + v, Text: "Nivel " + string(rune('0'+v)), Valor: v})
	}
	return out
}

func diagnostic(cand uuid.UUID, qid int64, text, payload string) repository.ResponseRecord {
	return repository.ResponseRecord{
		CandidateID: cand,
		Question:    assessment.Question{ID: qid, Text: text, Type: response.TypeED},
		Payload:     json.RawMessage(payload),
	}
}

func TestAidUsecase_RecommendAids(t *testing.T) {
	cand := uuid.New()
	resps := &mockResponseRepo{
		records: []repository.ResponseRecord{
			diagnostic(cand, 1, "Reading level", `{"valor": 2}`),
			diagnostic(cand, 2, "Writing level", `4`),
			diagnostic(cand, 3, "Money handling level", `"1"`),
		},
		options: map[int64][]response.Option{1: levelOptions(), 2: levelOptions(), 3: levelOptions()},
	}
	aidX := aid.TechnicalAid{ID: 10, Name: "Calculadora parlante", Active: true}
	aidY := aid.TechnicalAid{ID: 11, Name: "Billetes de práctica", Active: true}
	aidZ := aid.TechnicalAid{ID: 12, Name: "Lector de pantalla", Active: true}
	aids := &mockAidRepo{
		impediments: []aid.Impediment{
			{ID: 1, Name: aid.ImpedimentReadingWriting},
			{ID: 2, Name: aid.ImpedimentMoneyHandling},
			{ID: 3, Name: aid.ImpedimentCommunication},
		},
		links: []aid.Link{
			{ImpedimentID: 2, Aid: aidX, Description: "Para contar cambio"},
			{ImpedimentID: 2, Aid: aidY, Description: "Para practicar pagos"},
			{ImpedimentID: 1, Aid: aidZ, Description: "Lee documentos en voz alta"},
		},
		assigned: []int64{aidX.ID},
	}
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{cand: {ID: cand}}}

	uc := NewAidUsecase(cands, resps, aids, aids, nil)
	got, err := uc.RecommendAids(context.Background(), cand)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Impediments) != 2 || got.Impediments[0] != aid.ImpedimentReadingWriting || got.Impediments[1] != aid.ImpedimentMoneyHandling {
		t.Fatalf("unexpected impediments: %v", got.Impediments)
	}

	byName := aid.ByName(got.Groups)
	money := byName[aid.ImpedimentMoneyHandling]
	if len(money) != 1 || money[0].Aid.ID != aidY.ID || money[0].Description != "Para practicar pagos" {
		t.Fatalf("assigned aid must be excluded: %+v", money)
	}
	reading := byName[aid.ImpedimentReadingWriting]
	if len(reading) != 1 || reading[0].Aid.ID != aidZ.ID {
		t.Fatalf("unexpected reading aids: %+v", reading)
	}
}

func TestAidUsecase_BinaryAnswerUsesOptionValor(t *testing.T) {
	cand := uuid.New()
	resps := &mockResponseRepo{
		records: []repository.ResponseRecord{{
			CandidateID: cand,
			Question:    assessment.Question{ID: 7, Text: "Needs communication support", Type: response.TypeBinary},
			Payload:     json.RawMessage(`"Sí"`),
		}},
		options: map[int64][]response.Option{7: {
			{ID: 1, Text: "Sí", Valor: 0},
			{ID: 2, Text: "No", Valor: 1},
		}},
	}
	aids := &mockAidRepo{impediments: []aid.Impediment{{ID: 3, Name: aid.ImpedimentCommunication}}}
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{cand: {ID: cand}}}

	uc := NewAidUsecase(cands, resps, aids, aids, nil)
	got, err := uc.RecommendAids(context.Background(), cand)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Impediments) != 1 || got.Impediments[0] != aid.ImpedimentCommunication {
		t.Fatalf("unexpected impediments: %v", got.Impediments)
	}
}

func TestAidUsecase_NoTriggers(t *testing.T) {
	cand := uuid.New()
	resps := &mockResponseRepo{
		records: []repository.ResponseRecord{diagnostic(cand, 2, "Writing level", `4`)},
		options: map[int64][]response.Option{2: levelOptions()},
	}
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{cand: {ID: cand}}}

	uc := NewAidUsecase(cands, resps, &mockAidRepo{}, &mockAidRepo{}, nil)
	got, err := uc.RecommendAids(context.Background(), cand)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Impediments) != 0 || len(got.Groups) != 0 {
		t.Fatalf("expected nothing to recommend, got %+v", got)
	}
}

func TestAidUsecase_CandidateNotFound(t *testing.T) {
	uc := NewAidUsecase(&mockCandidateRepo{}, &mockResponseRepo{}, &mockAidRepo{}, &mockAidRepo{}, nil)
	if _, err := uc.RecommendAids(context.Background(), uuid.New()); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}
