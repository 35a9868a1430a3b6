package sis

// SupportIndexRow maps an exact sum of standard scores to the Support Needs
// Index and its percentile band.
type SupportIndexRow struct {
	TotalStandardSum  int    `json:"total_standard_sum"`
	Percentile        string `json:"percentile"`
	SupportNeedsIndex int    `json:"support_needs_index"`
}

type GlobalSummary struct {
	BaseQuestionnaireID int64   `json:"base_questionnaire_id"`
	TotalStandardSum    int     `json:"total_general"`
	SupportNeedsIndex   *int    `json:"support_needs_index"`
	Percentile          *string `json:"percentile"`
}

// IndexTable looks rows up by strict equality on the standard-score sum.
type IndexTable struct {
	bySum map[int]SupportIndexRow
}

func NewIndexTable(rows []SupportIndexRow) *IndexTable {
	t := &IndexTable{bySum: make(map[int]SupportIndexRow, len(rows))}
	for _, r := range rows {
		if _, dup := t.bySum[r.TotalStandardSum]; dup {
			continue
		}
		t.bySum[r.TotalStandardSum] = r
	}
	return t
}

func (t *IndexTable) Lookup(sum int) (SupportIndexRow, bool) {
	if t == nil {
		return SupportIndexRow{}, false
	}
	r, ok := t.bySum[sum]
	return r, ok
}

// Index sums the standard scores and attaches the matching index row. A
// missing row leaves the index and percentile nil; there is no
// nearest-neighbour fallback.
func Index(base int64, standards []int, lookup func(sum int) (SupportIndexRow, bool)) GlobalSummary {
	total := 0
	for _, s := range standards {
		total += s
	}
	g := GlobalSummary{BaseQuestionnaireID: base, TotalStandardSum: total}
	if lookup == nil {
		return g
	}
	row, ok := lookup(total)
	if !ok {
		return g
	}
	idx := row.SupportNeedsIndex
	pct := row.Percentile
	g.SupportNeedsIndex = &idx
	g.Percentile = &pct
	return g
}
