package sis

import (
	"testing"

	"inclusion-engine/internal/domain/response"

	"github.com/google/uuid"
)

func sisResp(cand uuid.UUID, section string, idx int, item string, f, t, ty int, subitems ...int) ItemResponse {
	return ItemResponse{
		CandidateID:         cand,
		QuestionnaireID:     2,
		BaseQuestionnaireID: 1,
		ItemName:            item,
		SectionName:         section,
		SectionIndex:        idx,
		Answer:              response.SISAnswer{Frequency: f, SupportTime: t, SupportType: ty, SubitemIDs: subitems},
	}
}

func TestSummarize_SectionTotals(t *testing.T) {
	c := uuid.New()
	got := Summarize([]ItemResponse{
		sisResp(c, "Home Life", 1, "Usar el baño", 2, 3, 2),
		sisResp(c, "Home Life", 1, "Preparar comida", 4, 4, 3),
	}, nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got))
	}
	s := got[0]
	if s.TotalFrequency != 6 || s.TotalSupportTime != 7 || s.TotalSupportType != 5 || s.TotalGeneral != 18 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if len(s.Items) != 2 || s.Items[0].ItemName != "Preparar comida" || s.Items[0].Total != 11 {
		t.Fatalf("items should be sorted by descending total: %+v", s.Items)
	}
}

func TestSummarize_OrderingAndStableItems(t *testing.T) {
	c := uuid.New()
	got := Summarize([]ItemResponse{
		sisResp(c, "Community", 2, "a", 1, 1, 1),
		sisResp(c, "Home Life", 1, "b", 1, 1, 1),
		sisResp(c, "Home Life", 1, "c", 1, 1, 1),
		sisResp(c, "Home Life", 1, "d", 0, 0, 0),
	}, nil)

	if len(got) != 2 || got[0].SectionName != "Home Life" || got[1].SectionName != "Community" {
		t.Fatalf("sections not ordered by index: %+v", got)
	}
	items := got[0].Items
	if items[0].ItemName != "b" || items[1].ItemName != "c" || items[2].ItemName != "d" {
		t.Fatalf("equal totals must keep input order: %+v", items)
	}
}

func TestSummarize_SubitemAids(t *testing.T) {
	c := uuid.New()
	catalog := map[int64]Subitem{
		4: {ID: 4, Text: "Abrir la llave", ItemName: "Higiene", Aids: []Aid{{ID: 1, Description: "Pictograma"}}},
		5: {ID: 5, Text: "Secarse", Aids: []Aid{{ID: 2, Description: "Modelado"}}},
	}
	got := Summarize([]ItemResponse{
		sisResp(c, "Home Life", 1, "Usar el baño", 1, 1, 1, 4, 99, 5),
	}, catalog)

	aids := got[0].Aids
	if len(aids) != 2 {
		t.Fatalf("expected 2 item groups, got %+v", aids)
	}
	if aids[0].ItemName != "Higiene" || aids[0].Subitems[0].SubitemText != "Abrir la llave" {
		t.Fatalf("unexpected first group: %+v", aids[0])
	}
	if aids[1].ItemName != "Usar el baño" || aids[1].Subitems[0].Aids[0].Description != "Modelado" {
		t.Fatalf("subitem without item name should use the question item: %+v", aids[1])
	}
}

func TestSummarize_SplitsCandidates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := Summarize([]ItemResponse{
		sisResp(a, "Home Life", 1, "x", 1, 0, 0),
		sisResp(b, "Home Life", 1, "x", 2, 0, 0),
	}, nil)
	if len(got) != 2 || got[0].TotalGeneral+got[1].TotalGeneral != 3 {
		t.Fatalf("expected one record per candidate: %+v", got)
	}
}

func TestResolve_MaxStandardScoreWins(t *testing.T) {
	rows := []PercentileRow{
		{DirectInterval: "1-5", StandardScore: 5, PercentileInterval: "<10"},
		{DirectInterval: "6-10", StandardScore: 8, PercentileInterval: "10-20"},
		{DirectInterval: "6-10", StandardScore: 10, PercentileInterval: "15-25"},
	}
	tbl := NewTable(rows)
	row, ok := tbl.Resolve(8)
	if !ok || row.StandardScore != 10 || row.PercentileInterval != "15-25" {
		t.Fatalf("Resolve(8) = %+v, %v", row, ok)
	}
	if row, ok := tbl.Resolve(3); !ok || row.StandardScore != 5 {
		t.Fatalf("Resolve(3) = %+v, %v", row, ok)
	}
	if _, ok := tbl.Resolve(40); ok {
		t.Fatalf("Resolve(40) should miss")
	}
	if _, ok := NewTable([]PercentileRow{{DirectInterval: "foo", StandardScore: 1}}).Resolve(1); ok {
		t.Fatalf("malformed interval must not match")
	}
}

func TestIndex(t *testing.T) {
	tbl := NewIndexTable([]SupportIndexRow{
		{TotalStandardSum: 30, Percentile: "50", SupportNeedsIndex: 100},
	})

	g := Index(1, []int{10, 12, 8}, tbl.Lookup)
	if g.TotalStandardSum != 30 || g.SupportNeedsIndex == nil || *g.SupportNeedsIndex != 100 || *g.Percentile != "50" {
		t.Fatalf("unexpected hit: %+v", g)
	}

	g = Index(1, []int{10, 12}, tbl.Lookup)
	if g.TotalStandardSum != 22 || g.SupportNeedsIndex != nil || g.Percentile != nil {
		t.Fatalf("miss should leave nulls: %+v", g)
	}
}

func TestEvaluate_TotalIsSumOfScoredSections(t *testing.T) {
	c := uuid.New()
	sections := Summarize([]ItemResponse{
		sisResp(c, "Home Life", 1, "x", 2, 3, 3),
		sisResp(c, "Community", 2, "y", 4, 4, 4),
		sisResp(c, "Health", 3, "z", 1, 0, 0),
	}, nil)
	tables := map[string]*Table{
		"Home Life": NewTable([]PercentileRow{{DirectInterval: "6-10", StandardScore: 9, PercentileInterval: "37"}}),
		"Community": NewTable([]PercentileRow{{DirectInterval: ">10", StandardScore: 12, PercentileInterval: "75"}}),
	}
	index := NewIndexTable([]SupportIndexRow{{TotalStandardSum: 21, Percentile: "60", SupportNeedsIndex: 104}})

	rep := Evaluate(1, sections, tables, index)
	if len(rep.PerSectionDetails) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(rep.PerSectionDetails))
	}
	sum := 0
	for _, d := range rep.PerSectionDetails {
		if d.HasScore {
			sum += *d.StandardScore
		}
	}
	if rep.GlobalSummary.TotalStandardSum != sum || sum != 21 {
		t.Fatalf("total = %d, sum of scored = %d", rep.GlobalSummary.TotalStandardSum, sum)
	}
	if rep.PerSectionDetails[2].HasScore || rep.PerSectionDetails[2].StandardScore != nil {
		t.Fatalf("section without table must be unscored: %+v", rep.PerSectionDetails[2])
	}
	if rep.GlobalSummary.SupportNeedsIndex == nil || *rep.GlobalSummary.SupportNeedsIndex != 104 {
		t.Fatalf("index not resolved: %+v", rep.GlobalSummary)
	}
}

func TestDominantBase(t *testing.T) {
	mk := func(base int64) ItemResponse { return ItemResponse{BaseQuestionnaireID: base} }
	if got := DominantBase([]ItemResponse{mk(3), mk(1), mk(3)}); got != 3 {
		t.Fatalf("got %d", got)
	}
	if got := DominantBase([]ItemResponse{mk(3), mk(1)}); got != 1 {
		t.Fatalf("tie should pick lowest id, got %d", got)
	}
	if got := DominantBase(nil); got != 0 {
		t.Fatalf("got %d", got)
	}
}
