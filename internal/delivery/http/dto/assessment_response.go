package dto

import (
	"time"

	"inclusion-engine/internal/domain/aid"
	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/skill"
	"inclusion-engine/internal/repository"
	"inclusion-engine/internal/usecase"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Active      bool   `json:"active"`
}

func NewSkills(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, s := range items {
		out = append(out, SkillResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Category:    string(s.Category),
			Active:      s.Active,
		})
	}
	return out
}

type AidRecommendationResponse struct {
	CandidateID uuid.UUID                       `json:"candidate_id"`
	Impediments []string                        `json:"impediments"`
	Aids        map[string][]aid.Recommendation `json:"aids"`
}

func NewAidRecommendation(rec usecase.AidRecommendation) AidRecommendationResponse {
	return AidRecommendationResponse{
		CandidateID: rec.CandidateID,
		Impediments: rec.Impediments,
		Aids:        aid.ByName(rec.Groups),
	}
}

type WriteResponseResponse struct {
	QuestionnaireID int64   `json:"questionnaire_id"`
	QuestionID      int64   `json:"question_id"`
	Status          string  `json:"status"`
	Value           string  `json:"value"`
	Removed         []int64 `json:"removed_question_ids"`
}

func NewWriteResponse(out usecase.WriteOutcome) WriteResponseResponse {
	removed := out.Removed
	if removed == nil {
		removed = []int64{}
	}
	return WriteResponseResponse{
		QuestionnaireID: out.QuestionnaireID,
		QuestionID:      out.QuestionID,
		Status:          string(out.Status),
		Value:           out.Value.Display(),
		Removed:         removed,
	}
}

type QuestionnaireStatusResponse struct {
	QuestionnaireID int64      `json:"questionnaire_id"`
	Status          string     `json:"status"`
	FinalizedAt     *time.Time `json:"finalized_at"`
}

func NewQuestionnaireStatus(st assessment.TrackedStatus) QuestionnaireStatusResponse {
	return QuestionnaireStatusResponse{
		QuestionnaireID: st.QuestionnaireID,
		Status:          string(st.Status),
		FinalizedAt:     st.FinalizedAt,
	}
}

type FinalizeResponse struct {
	Status      string    `json:"status"`
	FinalizedAt time.Time `json:"finalized_at"`
	Stage       string    `json:"stage"`
	AgencyState *string   `json:"agency_state"`
	Advanced    bool      `json:"advanced"`
}

func NewFinalize(res repository.FinalizeResult) FinalizeResponse {
	out := FinalizeResponse{
		Status:      string(res.Status),
		FinalizedAt: res.FinalizedAt,
		Stage:       string(res.Stage),
		Advanced:    res.Advanced,
	}
	if label := res.AgencyState.Label(); label != "" {
		out.AgencyState = &label
	}
	return out
}
