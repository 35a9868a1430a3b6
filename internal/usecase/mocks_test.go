package usecase

import (
	"context"
	"sync"
	"time"

	"inclusion-engine/internal/domain/aid"
	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/job"
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/domain/sis"
	"inclusion-engine/internal/domain/skill"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

type mockCandidateRepo struct {
	candidates map[uuid.UUID]candidate.Candidate
	evals      map[uuid.UUID][]skill.Evaluation
	pool       []candidate.Candidate
	poolSkills []int64
	poolState  candidate.AgencyState
	err        error
}

func (m *mockCandidateRepo) GetCandidate(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	if m.err != nil {
		return candidate.Candidate{}, m.err
	}
	c, ok := m.candidates[id]
	if !ok {
		return candidate.Candidate{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCandidateRepo) ListCandidateIDs(context.Context, candidate.AgencyState) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(m.candidates))
	for id := range m.candidates {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockCandidateRepo) GetCandidateSkillEvaluations(_ context.Context, id uuid.UUID) ([]skill.Evaluation, error) {
	return m.evals[id], nil
}

func (m *mockCandidateRepo) GetEvaluationsForCandidates(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]skill.Evaluation, error) {
	out := make(map[uuid.UUID][]skill.Evaluation, len(ids))
	for _, id := range ids {
		out[id] = m.evals[id]
	}
	return out, nil
}

func (m *mockCandidateRepo) ListCandidatesWithAnySkill(_ context.Context, skillIDs []int64, state candidate.AgencyState) ([]candidate.Candidate, error) {
	m.poolSkills = skillIDs
	m.poolState = state
	return m.pool, nil
}

type mockJobRepo struct {
	jobs      map[int64]job.Job
	reqs      map[int64][]skill.Requirement
	requiring []job.Job
	err       error
}

func (m *mockJobRepo) GetJob(_ context.Context, id int64) (job.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrNotFound
	}
	return j, nil
}

func (m *mockJobRepo) ListJobs(_ context.Context, activeOnly bool) ([]job.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]job.Job, 0, len(m.jobs))
	for id := int64(1); id <= int64(len(m.jobs)); id++ {
		if j, ok := m.jobs[id]; ok && (!activeOnly || j.Active) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) GetJobRequirements(_ context.Context, id int64) ([]skill.Requirement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reqs[id], nil
}

func (m *mockJobRepo) GetRequirementsForJobs(_ context.Context, ids []int64) (map[int64][]skill.Requirement, error) {
	out := make(map[int64][]skill.Requirement, len(ids))
	for _, id := range ids {
		out[id] = m.reqs[id]
	}
	return out, nil
}

func (m *mockJobRepo) ListJobsRequiringAny(context.Context, []int64) ([]job.Job, error) {
	return m.requiring, nil
}

type mockResponseRepo struct {
	mu             sync.Mutex
	records        []repository.ResponseRecord
	options        map[int64][]response.Option
	questions      map[int64]assessment.Question
	questionnaires map[int64]assessment.Questionnaire
	lastFilter     repository.ResponseFilter
	writes         []repository.WriteRequest
	writeResult    repository.WriteResult
	finalized      time.Time
	finalizeResult repository.FinalizeResult
	statuses       map[int64]assessment.TrackedStatus
	err            error
}

func (m *mockResponseRepo) GetResponses(_ context.Context, id uuid.UUID, f repository.ResponseFilter) ([]repository.ResponseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	if m.err != nil {
		return nil, m.err
	}
	out := make([]repository.ResponseRecord, 0, len(m.records))
	for _, r := range m.records {
		if r.CandidateID != id {
			continue
		}
		if len(f.Types) > 0 && !hasType(f.Types, r.Question.Type) {
			continue
		}
		if f.SectionName != "" && r.Question.SectionName != f.SectionName {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func hasType(ts []response.QuestionType, t response.QuestionType) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func (m *mockResponseRepo) GetOptions(_ context.Context, ids []int64) (map[int64][]response.Option, error) {
	out := make(map[int64][]response.Option, len(ids))
	for _, id := range ids {
		out[id] = m.options[id]
	}
	return out, nil
}

func (m *mockResponseRepo) GetQuestion(_ context.Context, id int64) (assessment.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return assessment.Question{}, repository.ErrNotFound
	}
	return q, nil
}

func (m *mockResponseRepo) GetQuestionnaire(_ context.Context, id int64) (assessment.Questionnaire, error) {
	q, ok := m.questionnaires[id]
	if !ok {
		return assessment.Questionnaire{}, repository.ErrNotFound
	}
	return q, nil
}

func (m *mockResponseRepo) GetStatus(_ context.Context, cand uuid.UUID, qid int64) (assessment.TrackedStatus, error) {
	if m.err != nil {
		return assessment.TrackedStatus{}, m.err
	}
	if st, ok := m.statuses[qid]; ok {
		return st, nil
	}
	return assessment.TrackedStatus{CandidateID: cand, QuestionnaireID: qid, Status: assessment.StatusInactive}, nil
}

func (m *mockResponseRepo) WriteResponse(_ context.Context, req repository.WriteRequest) (repository.WriteResult, error) {
	if m.err != nil {
		return repository.WriteResult{}, m.err
	}
	m.writes = append(m.writes, req)
	return m.writeResult, nil
}

func (m *mockResponseRepo) Finalize(_ context.Context, _ uuid.UUID, _ int64, at time.Time) (repository.FinalizeResult, error) {
	m.finalized = at
	res := m.finalizeResult
	res.FinalizedAt = at
	return res, nil
}

type mockSISCatalog struct {
	mu       sync.Mutex
	subitems map[int64]sis.Subitem
	rows     []sis.PercentileRow
	index    []sis.SupportIndexRow
	bases    []int64
}

func (m *mockSISCatalog) GetSubitems(_ context.Context, ids []int64) (map[int64]sis.Subitem, error) {
	out := map[int64]sis.Subitem{}
	for _, id := range ids {
		if s, ok := m.subitems[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *mockSISCatalog) GetPercentileTable(_ context.Context, base int64) ([]sis.PercentileRow, error) {
	m.mu.Lock()
	m.bases = append(m.bases, base)
	m.mu.Unlock()
	return m.rows, nil
}

func (m *mockSISCatalog) GetSupportIndexRows(context.Context, int64) ([]sis.SupportIndexRow, error) {
	return m.index, nil
}

type mockAidRepo struct {
	impediments []aid.Impediment
	links       []aid.Link
	assigned    []int64
}

func (m *mockAidRepo) GetImpediments(context.Context) ([]aid.Impediment, error) {
	return m.impediments, nil
}

func (m *mockAidRepo) GetAidsForImpediments(_ context.Context, ids []int64) ([]aid.Link, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []aid.Link{}
	for _, l := range m.links {
		if want[l.ImpedimentID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockAidRepo) GetAssignedActiveAidIDs(context.Context, uuid.UUID) ([]int64, error) {
	return m.assigned, nil
}
