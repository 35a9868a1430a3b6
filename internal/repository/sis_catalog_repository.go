package repository

import (
	"context"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/sis"
)

// SISCatalog serves the read-only SIS calibration data.
type SISCatalog interface {
	GetSubitems(ctx context.Context, ids []int64) (map[int64]sis.Subitem, error)
	GetPercentileTable(ctx context.Context, baseQuestionnaireID int64) ([]sis.PercentileRow, error)
	GetSupportIndexRows(ctx context.Context, baseQuestionnaireID int64) ([]sis.SupportIndexRow, error)
}

type PostgresSISCatalog struct {
	db database.DB
}

func NewPostgresSISCatalog(db database.DB) *PostgresSISCatalog {
	return &PostgresSISCatalog{db: db}
}

func (r *PostgresSISCatalog) GetSubitems(ctx context.Context, ids []int64) (map[int64]sis.Subitem, error) {
	out := make(map[int64]sis.Subitem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT si.id, si.text, si.item_name, a.id, a.description
		 FROM sis_subitems si
		 LEFT JOIN sis_subitem_aids sa ON sa.subitem_id = si.id
		 LEFT JOIN sis_aids a ON a.id = sa.aid_id
		 WHERE si.id = ANY($1)
		 ORDER BY si.id ASC, sa.position ASC, a.id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s sis.Subitem
		var aidID *int64
		var aidDesc *string
		if err := rows.Scan(&s.ID, &s.Text, &s.ItemName, &aidID, &aidDesc); err != nil {
			return nil, err
		}
		cur, ok := out[s.ID]
		if !ok {
			cur = sis.Subitem{ID: s.ID, Text: s.Text, ItemName: s.ItemName, Aids: make([]sis.Aid, 0)}
		}
		if aidID != nil && aidDesc != nil {
			cur.Aids = append(cur.Aids, sis.Aid{ID: *aidID, Description: *aidDesc})
		}
		out[s.ID] = cur
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const percentileQuery = `SELECT ps.section_name, ps.group_name, pr.direct_interval, pr.standard_score, pr.percentile_interval
		 FROM percentile_tables pt
		 JOIN percentile_sections ps ON ps.table_id = pt.id
		 JOIN percentile_rows pr ON pr.section_id = ps.id
		 WHERE pt.base_questionnaire_id = $1
		 ORDER BY ps.section_name ASC, ps.group_name ASC, pr.position ASC, pr.id ASC`

// GetPercentileTable loads every section of the base questionnaire's table.
func (r *PostgresSISCatalog) GetPercentileTable(ctx context.Context, baseQuestionnaireID int64) ([]sis.PercentileRow, error) {
	rows, err := r.db.Query(ctx, percentileQuery, baseQuestionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sis.PercentileRow, 0)
	for rows.Next() {
		var p sis.PercentileRow
		if err := rows.Scan(&p.SectionName, &p.Group, &p.DirectInterval, &p.StandardScore, &p.PercentileInterval); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSISCatalog) GetSupportIndexRows(ctx context.Context, baseQuestionnaireID int64) ([]sis.SupportIndexRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT total_standard_sum, percentile, support_needs_index
		 FROM support_index_rows
		 WHERE base_questionnaire_id = $1
		 ORDER BY total_standard_sum ASC`,
		baseQuestionnaireID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sis.SupportIndexRow, 0)
	for rows.Next() {
		var s sis.SupportIndexRow
		if err := rows.Scan(&s.TotalStandardSum, &s.Percentile, &s.SupportNeedsIndex); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
