package sis

import "inclusion-engine/internal/domain/interval"

// PercentileRow is one calibration row of a section: the direct-score
// interval it covers, the standard score it maps to and the percentile band.
// Intervals keep the calibration source's string form.
type PercentileRow struct {
	SectionName        string `json:"section_name"`
	Group              string `json:"group,omitempty"`
	DirectInterval     string `json:"direct_interval"`
	StandardScore      int    `json:"standard_score"`
	PercentileInterval string `json:"percentile_interval"`
}

// Table is a compiled, read-only view over a section's rows.
type Table struct {
	rows     []PercentileRow
	compiled []interval.Expr
}

func NewTable(rows []PercentileRow) *Table {
	t := &Table{rows: rows, compiled: make([]interval.Expr, len(rows))}
	for i, r := range rows {
		e, _ := interval.Parse(r.DirectInterval)
		t.compiled[i] = e
	}
	return t
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Resolve returns the row whose direct interval admits direct. When several
// rows match, the one with the highest standard score wins; among equal
// scores the earliest row wins. Rows with malformed intervals never match.
func (t *Table) Resolve(direct int) (PercentileRow, bool) {
	if t == nil {
		return PercentileRow{}, false
	}
	best := -1
	for i, e := range t.compiled {
		if !e.Contains(float64(direct)) {
			continue
		}
		if best < 0 || t.rows[i].StandardScore > t.rows[best].StandardScore {
			best = i
		}
	}
	if best < 0 {
		return PercentileRow{}, false
	}
	return t.rows[best], true
}
