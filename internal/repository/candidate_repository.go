package repository

import (
	"context"
	"fmt"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/skill"

	"github.com/google/uuid"
)

type CandidateRepository interface {
	GetCandidate(ctx context.Context, id uuid.UUID) (candidate.Candidate, error)
	ListCandidateIDs(ctx context.Context, state candidate.AgencyState) ([]uuid.UUID, error)
	GetCandidateSkillEvaluations(ctx context.Context, candidateID uuid.UUID) ([]skill.Evaluation, error)
	GetEvaluationsForCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]skill.Evaluation, error)
	ListCandidatesWithAnySkill(ctx context.Context, skillIDs []int64, state candidate.AgencyState) ([]candidate.Candidate, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `c.id, c.first_name, c.last_name, c.stage, COALESCE(c.agency_state, ''),
		        c.latitude::float8, c.longitude::float8, c.created_at, c.updated_at`

func scanCandidate(row database.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var stage, agency string
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &stage, &agency, &c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return candidate.Candidate{}, err
	}
	c.Stage = candidate.Stage(stage)
	if st, err := candidate.ParseStage(stage); err == nil {
		c.Stage = st
	}
	st, err := candidate.ParseAgencyState(agency)
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("candidate %s: %w", c.ID, err)
	}
	c.AgencyState = st
	return c, nil
}

func (r *PostgresCandidateRepository) GetCandidate(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRow(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE c.id = $1`,
		id,
	))
	if err != nil {
		if isNoRows(err) {
			return candidate.Candidate{}, ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	return c, nil
}

func candidateForUpdate(ctx context.Context, tx database.Tx, id uuid.UUID) (candidate.Candidate, error) {
	c, err := scanCandidate(tx.QueryRow(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE c.id = $1
		 FOR UPDATE`,
		id,
	))
	if err != nil {
		if isNoRows(err) {
			return candidate.Candidate{}, ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	return c, nil
}

// ListCandidateIDs lists candidates in the given agency state; AgencyNone
// lists everyone.
func (r *PostgresCandidateRepository) ListCandidateIDs(ctx context.Context, state candidate.AgencyState) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM candidates
		 WHERE $1::text = '' OR agency_state = $1
		 ORDER BY created_at ASC, id ASC`,
		state.Code(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const evaluationQuery = `SELECT e.id, e.candidate_id, s.id, s.name, s.description, s.category, s.active,
		        e.competency, e.evaluator, e.active, e.evaluated_at
		 FROM candidate_skill_evaluations e
		 JOIN skills s ON s.id = e.skill_id
		 WHERE e.active AND e.candidate_id = ANY($1)
		 ORDER BY e.candidate_id ASC, s.name ASC, e.evaluated_at DESC`

func (r *PostgresCandidateRepository) GetCandidateSkillEvaluations(ctx context.Context, candidateID uuid.UUID) ([]skill.Evaluation, error) {
	m, err := r.GetEvaluationsForCandidates(ctx, []uuid.UUID{candidateID})
	if err != nil {
		return nil, err
	}
	out := m[candidateID]
	if out == nil {
		out = make([]skill.Evaluation, 0)
	}
	return out, nil
}

func (r *PostgresCandidateRepository) GetEvaluationsForCandidates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]skill.Evaluation, error) {
	out := make(map[uuid.UUID][]skill.Evaluation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, evaluationQuery, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e skill.Evaluation
		var category, level string
		if err := rows.Scan(
			&e.ID, &e.CandidateID,
			&e.Skill.ID, &e.Skill.Name, &e.Skill.Description, &category, &e.Skill.Active,
			&level, &e.Evaluator, &e.Active, &e.EvaluatedAt,
		); err != nil {
			return nil, err
		}
		e.Skill.Category = skill.Category(category)
		e.Level = skill.Competency(level)
		out[e.CandidateID] = append(out[e.CandidateID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) ListCandidatesWithAnySkill(ctx context.Context, skillIDs []int64, state candidate.AgencyState) ([]candidate.Candidate, error) {
	out := make([]candidate.Candidate, 0)
	if len(skillIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE ($2::text = '' OR c.agency_state = $2)
		   AND EXISTS (
		         SELECT 1 FROM candidate_skill_evaluations e
		         WHERE e.candidate_id = c.id AND e.active AND e.skill_id = ANY($1)
		       )
		 ORDER BY c.created_at ASC, c.id ASC`,
		skillIDs, state.Code(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
