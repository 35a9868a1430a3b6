// Package matching scores candidates against jobs by weighted skill
// competency.
package matching

import (
	"math"
	"sort"

	"inclusion-engine/internal/domain/skill"
)

type MatchedSkill struct {
	SkillID          int64
	SkillName        string
	Category         skill.Category
	RequiredLevel    skill.Importance
	CandidateLevel   skill.Competency
	Score            float64
	CompetencyPct    float64
	ImportanceWeight float64
}

type MissingSkill struct {
	SkillID          int64
	SkillName        string
	Category         skill.Category
	RequiredLevel    skill.Importance
	ImportanceWeight float64
	LostScore        float64
}

type Result struct {
	MatchingScore      float64
	MaxPossibleScore   float64
	MatchingPercentage float64
	Matched            []MatchedSkill
	Missing            []MissingSkill
	TotalLost          float64
}

func (r Result) MatchedCount() int { return len(r.Matched) }
func (r Result) MissingCount() int { return len(r.Missing) }

// Calculate scores one candidate against one job's requirements. Inactive
// evaluations are ignored; when a skill was evaluated more than once the most
// recent active evaluation counts.
func Calculate(evals []skill.Evaluation, reqs []skill.Requirement) Result {
	bySkill := make(map[int64]skill.Evaluation, len(evals))
	for _, e := range evals {
		if !e.Active {
			continue
		}
		if prev, ok := bySkill[e.Skill.ID]; ok && !e.EvaluatedAt.After(prev.EvaluatedAt) {
			continue
		}
		bySkill[e.Skill.ID] = e
	}

	res := Result{
		Matched: make([]MatchedSkill, 0, len(reqs)),
		Missing: make([]MissingSkill, 0),
	}

	var score, maxScore, lost float64
	for _, r := range reqs {
		w := r.Importance.Weight()
		possible := skill.MaxCompetency * w
		maxScore += possible

		e, ok := bySkill[r.Skill.ID]
		if !ok {
			lost += possible
			res.Missing = append(res.Missing, MissingSkill{
				SkillID:          r.Skill.ID,
				SkillName:        r.Skill.Name,
				Category:         r.Skill.Category,
				RequiredLevel:    r.Importance,
				ImportanceWeight: w,
				LostScore:        round(possible, 2),
			})
			continue
		}

		c := e.Level.Value()
		contrib := c * w
		score += contrib
		res.Matched = append(res.Matched, MatchedSkill{
			SkillID:          r.Skill.ID,
			SkillName:        r.Skill.Name,
			Category:         r.Skill.Category,
			RequiredLevel:    r.Importance,
			CandidateLevel:   e.Level,
			Score:            round(contrib, 2),
			CompetencyPct:    round(100*c/skill.MaxCompetency, 1),
			ImportanceWeight: w,
		})
	}

	res.MatchingScore = round(score, 2)
	res.MaxPossibleScore = round(maxScore, 2)
	res.TotalLost = round(lost, 2)
	if maxScore > 0 {
		res.MatchingPercentage = clamp(round(100*score/maxScore, 1), 0, 100)
	}
	return res
}

// Ranked is a scored subject; Subject is whatever the caller ranks (a job or
// a candidate).
type Ranked[T any] struct {
	Subject T
	Result  Result
}

// Rank orders by descending matching score. Equal scores keep input order.
func Rank[T any](in []Ranked[T]) []Ranked[T] {
	out := make([]Ranked[T], len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.MatchingScore > out[j].Result.MatchingScore
	})
	return out
}

// SharesSkill reports whether any active evaluation covers a requirement.
func SharesSkill(evals []skill.Evaluation, reqs []skill.Requirement) bool {
	required := make(map[int64]struct{}, len(reqs))
	for _, r := range reqs {
		required[r.Skill.ID] = struct{}{}
	}
	for _, e := range evals {
		if !e.Active {
			continue
		}
		if _, ok := required[e.Skill.ID]; ok {
			return true
		}
	}
	return false
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
