package usecase

import (
	"context"
	"errors"
	"testing"

	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/job"

	"github.com/google/uuid"
)

func ptr(f float64) *float64 { return &f }

func proximityJobs() *mockJobRepo {
	return &mockJobRepo{jobs: map[int64]job.Job{
		1: {ID: 1, Title: "Centro", Active: true, Location: &job.Location{Latitude: ptr(19.4326), Longitude: ptr(-99.1332)}},
		2: {ID: 2, Title: "Puebla", Active: true, Location: &job.Location{Latitude: ptr(19.0414), Longitude: ptr(-98.2063)}},
		3: {ID: 3, Title: "Sin ubicación", Active: true},
		4: {ID: 4, Title: "Inactiva", Active: false, Location: &job.Location{Latitude: ptr(19.4326), Longitude: ptr(-99.1332)}},
	}}
}

func TestProximityUsecase_JobsWithin(t *testing.T) {
	uc := NewProximityUsecase(proximityJobs(), &mockCandidateRepo{})

	res, err := uc.JobsWithin(context.Background(), "10", "19.43", "-99.13")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Applied || len(res.Jobs) != 1 || res.Jobs[0].Job.ID != 1 {
		t.Fatalf("expected only job 1 within 10km, got %+v", res)
	}

	res, err = uc.JobsWithin(context.Background(), "abc", "19.43", "-99.13")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Applied || len(res.Jobs) != 3 {
		t.Fatalf("non-numeric input should bypass the filter, got %+v", res)
	}
}

func TestProximityUsecase_JobsNearCandidate(t *testing.T) {
	near, unknown := uuid.New(), uuid.New()
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{
		near:    {ID: near, Latitude: ptr(19.05), Longitude: ptr(-98.2)},
		unknown: {ID: unknown},
	}}
	uc := NewProximityUsecase(proximityJobs(), cands)

	res, err := uc.JobsNearCandidate(context.Background(), near, "25")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].Job.ID != 2 {
		t.Fatalf("expected job 2 near the candidate, got %+v", res.Jobs)
	}

	res, err = uc.JobsNearCandidate(context.Background(), unknown, "25")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Applied {
		t.Fatalf("candidate without coordinates should bypass the filter")
	}

	if _, err := uc.JobsNearCandidate(context.Background(), uuid.New(), "25"); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}
