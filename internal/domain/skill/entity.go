package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryTechnical Category = "technical"
	CategorySoft      Category = "soft"
	CategoryPhysical  Category = "physical"
	CategoryCognitive Category = "cognitive"
	CategorySocial    Category = "social"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategorySoft, CategoryPhysical, CategoryCognitive, CategorySocial:
		return true
	}
	return false
}

// Importance is how much a job relies on a skill.
type Importance string

const (
	ImportanceEssential Importance = "essential"
	ImportanceImportant Importance = "important"
	ImportanceDesirable Importance = "desirable"
)

// Weight is the multiplier a requirement applies to a competency value.
// Unknown importances weigh like desirable ones.
func (i Importance) Weight() float64 {
	switch Importance(strings.ToLower(strings.TrimSpace(string(i)))) {
	case ImportanceEssential:
		return 4.0
	case ImportanceImportant:
		return 2.0
	default:
		return 1.0
	}
}

// Competency is the level a candidate was evaluated at.
type Competency string

const (
	CompetencyBasic        Competency = "basic"
	CompetencyIntermediate Competency = "intermediate"
	CompetencyAdvanced     Competency = "advanced"
	CompetencyExpert       Competency = "expert"
)

// MaxCompetency is the value of CompetencyExpert.
const MaxCompetency = 4.0

// Value maps a competency to 1..4; unknown levels are worth 0.
func (c Competency) Value() float64 {
	switch Competency(strings.ToLower(strings.TrimSpace(string(c)))) {
	case CompetencyBasic:
		return 1.0
	case CompetencyIntermediate:
		return 2.0
	case CompetencyAdvanced:
		return 3.0
	case CompetencyExpert:
		return 4.0
	default:
		return 0
	}
}

type Skill struct {
	ID          int64
	Name        string
	Description string
	Category    Category
	Active      bool
	CreatedAt   time.Time
}

// Requirement is one skill a job asks for. Unique per (job, skill).
type Requirement struct {
	ID         int64
	JobID      int64
	Skill      Skill
	Importance Importance
}

// Evaluation is a candidate's assessed level in one skill.
type Evaluation struct {
	ID          int64
	CandidateID uuid.UUID
	Skill       Skill
	Level       Competency
	Evaluator   string
	Active      bool
	EvaluatedAt time.Time
}

// SkillIDs returns the distinct skill ids of active evaluations, in input order.
func SkillIDs(evals []Evaluation) []int64 {
	seen := make(map[int64]struct{}, len(evals))
	out := make([]int64, 0, len(evals))
	for _, e := range evals {
		if !e.Active {
			continue
		}
		if _, ok := seen[e.Skill.ID]; ok {
			continue
		}
		seen[e.Skill.ID] = struct{}{}
		out = append(out, e.Skill.ID)
	}
	return out
}

// RequirementSkillIDs returns the distinct skill ids of reqs, in input order.
func RequirementSkillIDs(reqs []Requirement) []int64 {
	seen := make(map[int64]struct{}, len(reqs))
	out := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.Skill.ID]; ok {
			continue
		}
		seen[r.Skill.ID] = struct{}{}
		out = append(out, r.Skill.ID)
	}
	return out
}
