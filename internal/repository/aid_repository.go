package repository

import (
	"context"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/aid"

	"github.com/google/uuid"
)

type AidCatalog interface {
	GetImpediments(ctx context.Context) ([]aid.Impediment, error)
	GetAidsForImpediments(ctx context.Context, impedimentIDs []int64) ([]aid.Link, error)
}

type CandidateAidRepository interface {
	GetAssignedActiveAidIDs(ctx context.Context, candidateID uuid.UUID) ([]int64, error)
}

type PostgresAidRepository struct {
	db database.DB
}

func NewPostgresAidRepository(db database.DB) *PostgresAidRepository {
	return &PostgresAidRepository{db: db}
}

func (r *PostgresAidRepository) GetImpediments(ctx context.Context) ([]aid.Impediment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM impediments ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]aid.Impediment, 0)
	for rows.Next() {
		var i aid.Impediment
		if err := rows.Scan(&i.ID, &i.Name, &i.Description); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAidsForImpediments returns the active aids linked to any of the
// impediments, one entry per link.
func (r *PostgresAidRepository) GetAidsForImpediments(ctx context.Context, impedimentIDs []int64) ([]aid.Link, error) {
	out := make([]aid.Link, 0)
	if len(impedimentIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT ia.impediment_id, a.id, a.name, a.active, ia.description
		 FROM impediment_aids ia
		 JOIN technical_aids a ON a.id = ia.aid_id
		 WHERE a.active AND ia.impediment_id = ANY($1)
		 ORDER BY ia.impediment_id ASC, a.name ASC, a.id ASC`,
		impedimentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l aid.Link
		if err := rows.Scan(&l.ImpedimentID, &l.Aid.ID, &l.Aid.Name, &l.Aid.Active, &l.Description); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAidRepository) GetAssignedActiveAidIDs(ctx context.Context, candidateID uuid.UUID) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT aid_id
		 FROM candidate_aids
		 WHERE candidate_id = $1 AND status = 'active'
		 ORDER BY aid_id ASC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
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
