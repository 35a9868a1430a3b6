package repository

import (
	"context"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/job"
	"inclusion-engine/internal/domain/skill"
)

type JobRepository interface {
	GetJob(ctx context.Context, id int64) (job.Job, error)
	ListJobs(ctx context.Context, activeOnly bool) ([]job.Job, error)
	GetJobRequirements(ctx context.Context, jobID int64) ([]skill.Requirement, error)
	GetRequirementsForJobs(ctx context.Context, jobIDs []int64) (map[int64][]skill.Requirement, error)
	ListJobsRequiringAny(ctx context.Context, skillIDs []int64) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, j.title, j.company, j.description, j.active, j.created_at,
		        l.id, l.latitude::float8, l.longitude::float8,
		        COALESCE(l.address, ''), COALESCE(l.city, ''), COALESCE(l.state, ''), COALESCE(l.postal_code, '')`

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var locID *int64
	var loc job.Location
	if err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Description, &j.Active, &j.CreatedAt,
		&locID, &loc.Latitude, &loc.Longitude, &loc.Address, &loc.City, &loc.State, &loc.PostalCode,
	); err != nil {
		return job.Job{}, err
	}
	if locID != nil {
		loc.ID = *locID
		j.Location = &loc
	}
	return j, nil
}

func (r *PostgresJobRepository) GetJob(ctx context.Context, id int64) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 LEFT JOIN locations l ON l.id = j.location_id
		 WHERE j.id = $1`,
		id,
	))
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, activeOnly bool) ([]job.Job, error) {
	return r.listJobs(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 LEFT JOIN locations l ON l.id = j.location_id
		 WHERE NOT $1::bool OR j.active
		 ORDER BY j.id ASC`,
		activeOnly,
	)
}

func (r *PostgresJobRepository) ListJobsRequiringAny(ctx context.Context, skillIDs []int64) ([]job.Job, error) {
	if len(skillIDs) == 0 {
		return make([]job.Job, 0), nil
	}
	return r.listJobs(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 LEFT JOIN locations l ON l.id = j.location_id
		 WHERE j.active
		   AND EXISTS (
		         SELECT 1 FROM job_skill_requirements jr
		         WHERE jr.job_id = j.id AND jr.skill_id = ANY($1)
		       )
		 ORDER BY j.id ASC`,
		skillIDs,
	)
}

func (r *PostgresJobRepository) listJobs(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) GetJobRequirements(ctx context.Context, jobID int64) ([]skill.Requirement, error) {
	m, err := r.GetRequirementsForJobs(ctx, []int64{jobID})
	if err != nil {
		return nil, err
	}
	out := m[jobID]
	if out == nil {
		out = make([]skill.Requirement, 0)
	}
	return out, nil
}

func (r *PostgresJobRepository) GetRequirementsForJobs(ctx context.Context, jobIDs []int64) (map[int64][]skill.Requirement, error) {
	out := make(map[int64][]skill.Requirement, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT jr.id, jr.job_id, jr.importance,
		        s.id, s.name, s.description, s.category, s.active
		 FROM job_skill_requirements jr
		 JOIN skills s ON s.id = jr.skill_id
		 WHERE jr.job_id = ANY($1)
		 ORDER BY jr.job_id ASC, jr.id ASC`,
		jobIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rq skill.Requirement
		var importance, category string
		if err := rows.Scan(&rq.ID, &rq.JobID, &importance,
			&rq.Skill.ID, &rq.Skill.Name, &rq.Skill.Description, &category, &rq.Skill.Active); err != nil {
			return nil, err
		}
		rq.Importance = skill.Importance(importance)
		rq.Skill.Category = skill.Category(category)
		out[rq.JobID] = append(out[rq.JobID], rq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
