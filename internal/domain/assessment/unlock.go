package assessment

import (
	"sort"

	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/pkg/textnorm"
)

// UnlockRule makes UnlockedQuestionID answerable while SourceQuestionID's
// response selects OptionID.
type UnlockRule struct {
	SourceQuestionID   int64
	OptionID           int64
	UnlockedQuestionID int64
}

// OptionSet is the set of option ids a response selects.
type OptionSet map[int64]struct{}

func NewOptionSet(ids ...int64) OptionSet {
	s := make(OptionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s OptionSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s OptionSet) IDs() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Selected resolves which options a decoded response selects. Integers match
// an option's valor first and its id second; option-id lists match ids;
// text matches the folded option text. Binary answers match the option whose
// valor is 1 or 0, or whose text reads Sí or No.
func Selected(v response.Value, opts []response.Option) OptionSet {
	out := OptionSet{}
	switch v.Kind {
	case response.KindInt:
		for _, o := range opts {
			if o.Valor == v.Int {
				out[int64(o.ID)] = struct{}{}
				return out
			}
		}
		for _, o := range opts {
			if o.ID == v.Int {
				out[int64(o.ID)] = struct{}{}
				return out
			}
		}
		if v.Text != "" {
			return byText(v.Text, opts)
		}
	case response.KindOptionIDs:
		known := make(map[int]struct{}, len(opts))
		for _, o := range opts {
			known[o.ID] = struct{}{}
		}
		for _, id := range v.OptionIDs {
			if _, ok := known[id]; ok || len(opts) == 0 {
				out[int64(id)] = struct{}{}
			}
		}
	case response.KindText:
		return byText(v.Text, opts)
	case response.KindFlag:
		want, label := 0, "no"
		if v.Flag {
			want, label = 1, "si"
		}
		if s := byText(label, opts); len(s) > 0 {
			return s
		}
		for _, o := range opts {
			if o.Valor == want {
				out[int64(o.ID)] = struct{}{}
				return out
			}
		}
	}
	return out
}

func byText(s string, opts []response.Option) OptionSet {
	out := OptionSet{}
	key := textnorm.Fold(s)
	if key == "" {
		return out
	}
	for _, o := range opts {
		if textnorm.Fold(o.Text) == key {
			out[int64(o.ID)] = struct{}{}
			return out
		}
	}
	return out
}

// Graph indexes unlock rules by source and by target.
type Graph struct {
	bySource map[int64][]UnlockRule
	byTarget map[int64][]UnlockRule
}

func NewGraph(rules []UnlockRule) *Graph {
	g := &Graph{
		bySource: make(map[int64][]UnlockRule),
		byTarget: make(map[int64][]UnlockRule),
	}
	for _, r := range rules {
		g.bySource[r.SourceQuestionID] = append(g.bySource[r.SourceQuestionID], r)
		g.byTarget[r.UnlockedQuestionID] = append(g.byTarget[r.UnlockedQuestionID], r)
	}
	return g
}

// Locked reports whether q is gated by rules and none of them is satisfied
// by the given selections.
func (g *Graph) Locked(q int64, current map[int64]OptionSet) bool {
	rules := g.byTarget[q]
	if len(rules) == 0 {
		return false
	}
	for _, r := range rules {
		if current[r.SourceQuestionID].Has(r.OptionID) {
			return false
		}
	}
	return true
}

// Cascade returns the questions whose responses must be removed once source
// selects next. current holds the stored selections, including the previous
// one for source; it is not modified. A target survives while any other rule
// pointing at it is still satisfied. Removal propagates through the removed
// questions' own rules. The result is sorted and never contains source.
func (g *Graph) Cascade(source int64, next OptionSet, current map[int64]OptionSet) []int64 {
	state := make(map[int64]OptionSet, len(current)+1)
	for q, s := range current {
		state[q] = s
	}

	removed := map[int64]struct{}{}
	type change struct {
		question  int64
		prev, now OptionSet
	}
	queue := []change{{question: source, prev: current[source], now: next}}
	state[source] = next

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		for _, r := range g.bySource[c.question] {
			if !c.prev.Has(r.OptionID) || c.now.Has(r.OptionID) {
				continue
			}
			target := r.UnlockedQuestionID
			if target == source {
				continue
			}
			if _, done := removed[target]; done {
				continue
			}
			if !g.Locked(target, state) {
				continue
			}
			removed[target] = struct{}{}
			queue = append(queue, change{question: target, prev: state[target], now: OptionSet{}})
			state[target] = OptionSet{}
		}
	}

	out := make([]int64, 0, len(removed))
	for q := range removed {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
