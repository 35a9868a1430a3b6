package usecase

import (
	"context"

	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/job"
	"inclusion-engine/internal/domain/matching"
	"inclusion-engine/internal/domain/skill"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MessageNoRequirements = "no requirements"
	MessageNoEvaluations  = "no evaluated skills"
)

type JobMatchReport struct {
	Job                job.Job
	MatchingPercentage float64
	Candidates         []matching.Ranked[candidate.Candidate]
	Message            string
}

type CandidateMatchReport struct {
	Candidate candidate.Candidate
	Jobs      []matching.Ranked[job.Job]
	Message   string
}

type MatchingUsecase interface {
	MatchJobToCandidates(ctx context.Context, jobID int64) (JobMatchReport, error)
	MatchCandidateToJobs(ctx context.Context, candidateID uuid.UUID) (CandidateMatchReport, error)
}

type Matching struct {
	jobs        repository.JobRepository
	candidates  repository.CandidateRepository
	concurrency int
	log         *logger.Logger
}

func NewMatchingUsecase(jobs repository.JobRepository, candidates repository.CandidateRepository, concurrency int, log *logger.Logger) *Matching {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Matching{jobs: jobs, candidates: candidates, concurrency: concurrency, log: logger.OrNop(log)}
}

// MatchJobToCandidates ranks the job-pool candidates that were evaluated on
// at least one of the job's required skills.
func (u *Matching) MatchJobToCandidates(ctx context.Context, jobID int64) (JobMatchReport, error) {
	if jobID <= 0 {
		return JobMatchReport{}, ErrInvalidInput
	}
	j, err := u.jobs.GetJob(ctx, jobID)
	if err != nil {
		return JobMatchReport{}, notFound("get job", err, ErrJobNotFound)
	}

	rep := JobMatchReport{Job: j, Candidates: []matching.Ranked[candidate.Candidate]{}}

	reqs, err := u.jobs.GetJobRequirements(ctx, jobID)
	if err != nil {
		return JobMatchReport{}, storeErr("get job requirements", err)
	}
	if len(reqs) == 0 {
		rep.Message = MessageNoRequirements
		return rep, nil
	}

	pool, err := u.candidates.ListCandidatesWithAnySkill(ctx, skill.RequirementSkillIDs(reqs), candidate.AgencyBolsa)
	if err != nil {
		return JobMatchReport{}, storeErr("list candidates", err)
	}
	if len(pool) == 0 {
		return rep, nil
	}

	ids := make([]uuid.UUID, 0, len(pool))
	for _, c := range pool {
		ids = append(ids, c.ID)
	}
	evals, err := u.candidates.GetEvaluationsForCandidates(ctx, ids)
	if err != nil {
		return JobMatchReport{}, storeErr("get evaluations", err)
	}

	scored, err := score(ctx, u.concurrency, pool, func(c candidate.Candidate) ([]skill.Evaluation, []skill.Requirement) {
		return evals[c.ID], reqs
	})
	if err != nil {
		return JobMatchReport{}, err
	}

	rep.Candidates = matching.Rank(scored)
	if len(rep.Candidates) > 0 {
		rep.MatchingPercentage = rep.Candidates[0].Result.MatchingPercentage
	}
	u.log.Debug("job matched", "job_id", jobID, "candidates", len(rep.Candidates))
	return rep, nil
}

// MatchCandidateToJobs ranks the active jobs that require at least one of the
// candidate's evaluated skills.
func (u *Matching) MatchCandidateToJobs(ctx context.Context, candidateID uuid.UUID) (CandidateMatchReport, error) {
	if candidateID == uuid.Nil {
		return CandidateMatchReport{}, ErrInvalidInput
	}
	c, err := u.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return CandidateMatchReport{}, notFound("get candidate", err, ErrCandidateNotFound)
	}

	rep := CandidateMatchReport{Candidate: c, Jobs: []matching.Ranked[job.Job]{}}

	evals, err := u.candidates.GetCandidateSkillEvaluations(ctx, candidateID)
	if err != nil {
		return CandidateMatchReport{}, storeErr("get evaluations", err)
	}
	skillIDs := skill.SkillIDs(evals)
	if len(skillIDs) == 0 {
		rep.Message = MessageNoEvaluations
		return rep, nil
	}

	jobs, err := u.jobs.ListJobsRequiringAny(ctx, skillIDs)
	if err != nil {
		return CandidateMatchReport{}, storeErr("list jobs", err)
	}
	if len(jobs) == 0 {
		return rep, nil
	}

	jobIDs := make([]int64, 0, len(jobs))
	for _, j := range jobs {
		jobIDs = append(jobIDs, j.ID)
	}
	reqs, err := u.jobs.GetRequirementsForJobs(ctx, jobIDs)
	if err != nil {
		return CandidateMatchReport{}, storeErr("get job requirements", err)
	}

	scored, err := score(ctx, u.concurrency, jobs, func(j job.Job) ([]skill.Evaluation, []skill.Requirement) {
		return evals, reqs[j.ID]
	})
	if err != nil {
		return CandidateMatchReport{}, err
	}
	rep.Jobs = matching.Rank(scored)
	return rep, nil
}

// score runs matching.Calculate for every subject on at most limit
// goroutines. Output order follows subjects.
func score[T any](ctx context.Context, limit int, subjects []T, inputs func(T) ([]skill.Evaluation, []skill.Requirement)) ([]matching.Ranked[T], error) {
	out := make([]matching.Ranked[T], len(subjects))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, s := range subjects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			evals, reqs := inputs(s)
			out[i] = matching.Ranked[T]{Subject: s, Result: matching.Calculate(evals, reqs)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
