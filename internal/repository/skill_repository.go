package repository

import (
	"context"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/skill"
)

type SkillRepository interface {
	ListSkills(ctx context.Context, activeOnly bool) ([]skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) ListSkills(ctx context.Context, activeOnly bool) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, category, active, created_at
		 FROM skills
		 WHERE NOT $1::bool OR active
		 ORDER BY name ASC`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		var category string
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &category, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Category = skill.Category(category)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
