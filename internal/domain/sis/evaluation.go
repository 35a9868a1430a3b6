package sis

type SectionDetail struct {
	SectionName      string      `json:"section_name"`
	SectionIndex     int         `json:"section_index"`
	TotalFrequency   int         `json:"total_frequency"`
	TotalSupportTime int         `json:"total_support_time"`
	TotalSupportType int         `json:"total_support_type"`
	DirectScore      int         `json:"total_general"`
	StandardScore    *int        `json:"standard_score"`
	Percentile       *string     `json:"percentile"`
	HasScore         bool        `json:"has_score"`
	Items            []ItemTotal `json:"items"`
	Aids             []ItemAids  `json:"ayudas"`
}

type Report struct {
	GlobalSummary     GlobalSummary   `json:"global_summary"`
	PerSectionDetails []SectionDetail `json:"per_section_details"`
}

// Evaluate scores each section against its percentile table and folds the
// scored sections into the global index. tables is keyed by section name;
// sections without a table or without a matching row stay unscored.
func Evaluate(base int64, sections []SectionSummary, tables map[string]*Table, index *IndexTable) Report {
	details := make([]SectionDetail, 0, len(sections))
	standards := make([]int, 0, len(sections))

	for _, s := range sections {
		d := SectionDetail{
			SectionName:      s.SectionName,
			SectionIndex:     s.SectionIndex,
			TotalFrequency:   s.TotalFrequency,
			TotalSupportTime: s.TotalSupportTime,
			TotalSupportType: s.TotalSupportType,
			DirectScore:      s.TotalGeneral,
			Items:            s.Items,
			Aids:             s.Aids,
		}
		if row, ok := tables[s.SectionName].Resolve(s.TotalGeneral); ok {
			std := row.StandardScore
			pct := row.PercentileInterval
			d.StandardScore = &std
			d.Percentile = &pct
			d.HasScore = true
			standards = append(standards, std)
		}
		details = append(details, d)
	}

	return Report{
		GlobalSummary:     Index(base, standards, index.Lookup),
		PerSectionDetails: details,
	}
}

// DominantBase picks the base questionnaire most of the responses belong to.
// Ties go to the lowest id; zero means no responses.
func DominantBase(responses []ItemResponse) int64 {
	counts := map[int64]int{}
	for _, r := range responses {
		counts[r.BaseQuestionnaireID]++
	}
	var best int64
	bestN := 0
	for base, n := range counts {
		if n > bestN || (n == bestN && base < best) {
			best, bestN = base, n
		}
	}
	return best
}
