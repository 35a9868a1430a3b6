package aid

import "inclusion-engine/internal/pkg/textnorm"

type Impediment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type TechnicalAid struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Link ties an aid to an impediment with the description that applies to
// that impediment.
type Link struct {
	ImpedimentID int64
	Aid          TechnicalAid
	Description  string
}

type Recommendation struct {
	Aid         TechnicalAid `json:"aid"`
	Description string       `json:"description"`
}

type Group struct {
	Impediment Impediment       `json:"impediment"`
	Aids       []Recommendation `json:"aids"`
}

// ResolveImpediments maps impediment names to catalog entries, keeping the
// order of names. Unknown names are returned separately.
func ResolveImpediments(names []string, catalog []Impediment) (found []Impediment, unknown []string) {
	byName := make(map[string]Impediment, len(catalog))
	for _, imp := range catalog {
		byName[textnorm.Fold(imp.Name)] = imp
	}
	found = make([]Impediment, 0, len(names))
	for _, n := range names {
		imp, ok := byName[textnorm.Fold(n)]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		found = append(found, imp)
	}
	return found, unknown
}

// Recommend groups the active aids linked to each impediment, dropping the
// ones already assigned to the candidate. Every impediment gets a group, even
// when nothing is left to recommend.
func Recommend(impediments []Impediment, links []Link, assigned []int64) []Group {
	skip := make(map[int64]struct{}, len(assigned))
	for _, id := range assigned {
		skip[id] = struct{}{}
	}

	byImpediment := make(map[int64][]Link, len(impediments))
	for _, l := range links {
		byImpediment[l.ImpedimentID] = append(byImpediment[l.ImpedimentID], l)
	}

	out := make([]Group, 0, len(impediments))
	for _, imp := range impediments {
		g := Group{Impediment: imp, Aids: make([]Recommendation, 0)}
		seen := map[int64]struct{}{}
		for _, l := range byImpediment[imp.ID] {
			if !l.Aid.Active {
				continue
			}
			if _, ok := skip[l.Aid.ID]; ok {
				continue
			}
			if _, dup := seen[l.Aid.ID]; dup {
				continue
			}
			seen[l.Aid.ID] = struct{}{}
			g.Aids = append(g.Aids, Recommendation{Aid: l.Aid, Description: l.Description})
		}
		out = append(out, g)
	}
	return out
}

// ByName indexes groups by impediment name.
func ByName(groups []Group) map[string][]Recommendation {
	out := make(map[string][]Recommendation, len(groups))
	for _, g := range groups {
		out[g.Impediment.Name] = g.Aids
	}
	return out
}
