// Package sis implements Supports Intensity Scale scoring: per-section
// direct scores, conversion to standard scores and percentiles through
// calibration tables, and the Support Needs Index.
//
// Everything here is pure and integer-only. Callers fetch and decode the
// responses and the catalogs; these functions only fold them.
package sis

import (
	"sort"

	"inclusion-engine/internal/domain/response"

	"github.com/google/uuid"
)

// ItemResponse is one decoded SIS answer together with the question context
// the aggregation needs.
type ItemResponse struct {
	CandidateID         uuid.UUID
	QuestionnaireID     int64
	BaseQuestionnaireID int64
	QuestionID          int64
	ItemName            string
	SectionName         string
	SectionIndex        int
	Answer              response.SISAnswer
}

type Aid struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type Subitem struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	ItemName string `json:"item_name"`
	Aids     []Aid  `json:"aids"`
}

type ItemTotal struct {
	ItemName    string `json:"item_name"`
	Frequency   int    `json:"frequency"`
	SupportTime int    `json:"support_time"`
	SupportType int    `json:"support_type"`
	Total       int    `json:"total_item"`
}

type SubitemAids struct {
	SubitemText string `json:"subitem_text"`
	Aids        []Aid  `json:"aids"`
}

type ItemAids struct {
	ItemName string        `json:"item_name"`
	Subitems []SubitemAids `json:"subitems"`
}

type SectionSummary struct {
	CandidateID         uuid.UUID   `json:"candidate_id"`
	BaseQuestionnaireID int64       `json:"base_questionnaire_id"`
	SectionName         string      `json:"section_name"`
	SectionIndex        int         `json:"section_index"`
	TotalFrequency      int         `json:"total_frequency"`
	TotalSupportTime    int         `json:"total_support_time"`
	TotalSupportType    int         `json:"total_support_type"`
	TotalGeneral        int         `json:"total_general"`
	Items               []ItemTotal `json:"items"`
	Aids                []ItemAids  `json:"ayudas"`
}

type sectionKey struct {
	candidate uuid.UUID
	section   string
}

type sectionAcc struct {
	summary   SectionSummary
	itemIdx   map[string]int
	aidItemIx map[string]int
}

// Summarize folds responses into one summary per (candidate, section).
// Sections come out ordered by section index, then name. Within a section
// items are sorted by descending total; equal totals keep first-seen order.
// Subitem ids missing from the catalog are skipped.
func Summarize(responses []ItemResponse, catalog map[int64]Subitem) []SectionSummary {
	order := make([]sectionKey, 0)
	accs := make(map[sectionKey]*sectionAcc)

	for _, r := range responses {
		k := sectionKey{candidate: r.CandidateID, section: r.SectionName}
		acc, ok := accs[k]
		if !ok {
			acc = &sectionAcc{
				summary: SectionSummary{
					CandidateID:         r.CandidateID,
					BaseQuestionnaireID: r.BaseQuestionnaireID,
					SectionName:         r.SectionName,
					SectionIndex:        r.SectionIndex,
					Items:               make([]ItemTotal, 0),
					Aids:                make([]ItemAids, 0),
				},
				itemIdx:   map[string]int{},
				aidItemIx: map[string]int{},
			}
			accs[k] = acc
			order = append(order, k)
		}
		if r.SectionIndex < acc.summary.SectionIndex {
			acc.summary.SectionIndex = r.SectionIndex
		}

		a := r.Answer
		s := &acc.summary
		s.TotalFrequency += a.Frequency
		s.TotalSupportTime += a.SupportTime
		s.TotalSupportType += a.SupportType
		s.TotalGeneral += a.Direct()

		idx, ok := acc.itemIdx[r.ItemName]
		if !ok {
			idx = len(s.Items)
			acc.itemIdx[r.ItemName] = idx
			s.Items = append(s.Items, ItemTotal{ItemName: r.ItemName})
		}
		it := &s.Items[idx]
		it.Frequency += a.Frequency
		it.SupportTime += a.SupportTime
		it.SupportType += a.SupportType
		it.Total += a.Direct()

		for _, sid := range a.SubitemIDs {
			sub, ok := catalog[int64(sid)]
			if !ok {
				continue
			}
			itemName := sub.ItemName
			if itemName == "" {
				itemName = r.ItemName
			}
			ai, ok := acc.aidItemIx[itemName]
			if !ok {
				ai = len(s.Aids)
				acc.aidItemIx[itemName] = ai
				s.Aids = append(s.Aids, ItemAids{ItemName: itemName, Subitems: make([]SubitemAids, 0)})
			}
			aids := make([]Aid, len(sub.Aids))
			copy(aids, sub.Aids)
			s.Aids[ai].Subitems = append(s.Aids[ai].Subitems, SubitemAids{SubitemText: sub.Text, Aids: aids})
		}
	}

	out := make([]SectionSummary, 0, len(order))
	for _, k := range order {
		s := accs[k].summary
		sort.SliceStable(s.Items, func(i, j int) bool {
			return s.Items[i].Total > s.Items[j].Total
		})
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SectionIndex != out[j].SectionIndex {
			return out[i].SectionIndex < out[j].SectionIndex
		}
		return out[i].SectionName < out[j].SectionName
	})
	return out
}
