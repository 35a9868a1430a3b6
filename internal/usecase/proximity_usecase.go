package usecase

import (
	"context"
	"strconv"

	"inclusion-engine/internal/domain/geo"
	"inclusion-engine/internal/domain/job"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

type ProximityResult struct {
	Jobs []geo.Nearby
	// Applied is false when the parameters were not numeric and the jobs
	// were returned unfiltered.
	Applied bool
}

type ProximityUsecase interface {
	JobsWithin(ctx context.Context, maxKm, lat, lng string) (ProximityResult, error)
	JobsNearCandidate(ctx context.Context, candidateID uuid.UUID, maxKm string) (ProximityResult, error)
}

type Proximity struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
}

func NewProximityUsecase(jobs repository.JobRepository, candidates repository.CandidateRepository) *Proximity {
	return &Proximity{jobs: jobs, candidates: candidates}
}

func (u *Proximity) JobsWithin(ctx context.Context, maxKm, lat, lng string) (ProximityResult, error) {
	jobs, err := u.activeJobs(ctx)
	if err != nil {
		return ProximityResult{}, err
	}
	out, applied := geo.WithinRaw(maxKm, lat, lng, jobs)
	return ProximityResult{Jobs: out, Applied: applied}, nil
}

// JobsNearCandidate filters around the candidate's stored coordinates. A
// candidate without coordinates gets the unfiltered list.
func (u *Proximity) JobsNearCandidate(ctx context.Context, candidateID uuid.UUID, maxKm string) (ProximityResult, error) {
	if candidateID == uuid.Nil {
		return ProximityResult{}, ErrInvalidInput
	}
	c, err := u.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return ProximityResult{}, notFound("get candidate", err, ErrCandidateNotFound)
	}
	jobs, err := u.activeJobs(ctx)
	if err != nil {
		return ProximityResult{}, err
	}

	var lat, lng string
	if c.Latitude != nil && c.Longitude != nil {
		lat = strconv.FormatFloat(*c.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(*c.Longitude, 'f', -1, 64)
	}
	out, applied := geo.WithinRaw(maxKm, lat, lng, jobs)
	return ProximityResult{Jobs: out, Applied: applied}, nil
}

func (u *Proximity) activeJobs(ctx context.Context) ([]job.Job, error) {
	jobs, err := u.jobs.ListJobs(ctx, true)
	if err != nil {
		return nil, storeErr("list jobs", err)
	}
	return jobs, nil
}
