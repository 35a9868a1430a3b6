package dto

import (
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/job"
	"inclusion-engine/internal/domain/matching"
	"inclusion-engine/internal/usecase"

	"github.com/google/uuid"
)

type MatchedSkillResponse struct {
	SkillID          int64   `json:"skill_id"`
	Skill            string  `json:"skill"`
	Category         string  `json:"category"`
	RequiredLevel    string  `json:"required_level"`
	CandidateLevel   string  `json:"candidate_level"`
	Score            float64 `json:"score"`
	CompetencyPct    float64 `json:"competency_pct"`
	ImportanceWeight float64 `json:"importance_weight"`
}

type MissingSkillResponse struct {
	SkillID          int64   `json:"skill_id"`
	Skill            string  `json:"skill"`
	Category         string  `json:"category"`
	RequiredLevel    string  `json:"required_level"`
	ImportanceWeight float64 `json:"importance_weight"`
	LostScore        float64 `json:"lost_score"`
}

type MatchResultResponse struct {
	MatchingScore      float64                `json:"matching_score"`
	MaxPossibleScore   float64                `json:"max_possible_score"`
	MatchingPercentage float64                `json:"matching_percentage"`
	Matched            []MatchedSkillResponse `json:"matched"`
	Missing            []MissingSkillResponse `json:"missing"`
	MatchedCount       int                    `json:"matched_count"`
	MissingCount       int                    `json:"missing_count"`
	TotalLost          float64                `json:"total_lost"`
}

type CandidateMatchResponse struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	FullName    string    `json:"full_name"`
	MatchResultResponse
}

type JobMatchResponse struct {
	JobID   int64  `json:"job_id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	MatchResultResponse
}

type JobMatchReportResponse struct {
	JobID              int64                    `json:"job_id"`
	Title              string                   `json:"title"`
	MatchingPercentage float64                  `json:"matching_percentage"`
	Candidates         []CandidateMatchResponse `json:"candidates"`
	Message            string                   `json:"message,omitempty"`
}

type CandidateMatchReportResponse struct {
	CandidateID uuid.UUID          `json:"candidate_id"`
	Jobs        []JobMatchResponse `json:"jobs"`
	Message     string             `json:"message,omitempty"`
}

func NewMatchResult(r matching.Result) MatchResultResponse {
	out := MatchResultResponse{
		MatchingScore:      r.MatchingScore,
		MaxPossibleScore:   r.MaxPossibleScore,
		MatchingPercentage: r.MatchingPercentage,
		Matched:            make([]MatchedSkillResponse, 0, len(r.Matched)),
		Missing:            make([]MissingSkillResponse, 0, len(r.Missing)),
		MatchedCount:       r.MatchedCount(),
		MissingCount:       r.MissingCount(),
		TotalLost:          r.TotalLost,
	}
	for _, m := range r.Matched {
		out.Matched = append(out.Matched, MatchedSkillResponse{
			SkillID:          m.SkillID,
			Skill:            m.SkillName,
			Category:         string(m.Category),
			RequiredLevel:    string(m.RequiredLevel),
			CandidateLevel:   string(m.CandidateLevel),
			Score:            m.Score,
			CompetencyPct:    m.CompetencyPct,
			ImportanceWeight: m.ImportanceWeight,
		})
	}
	for _, m := range r.Missing {
		out.Missing = append(out.Missing, MissingSkillResponse{
			SkillID:          m.SkillID,
			Skill:            m.SkillName,
			Category:         string(m.Category),
			RequiredLevel:    string(m.RequiredLevel),
			ImportanceWeight: m.ImportanceWeight,
			LostScore:        m.LostScore,
		})
	}
	return out
}

func NewJobMatchReport(rep usecase.JobMatchReport) JobMatchReportResponse {
	out := JobMatchReportResponse{
		JobID:              rep.Job.ID,
		Title:              rep.Job.Title,
		MatchingPercentage: rep.MatchingPercentage,
		Candidates:         make([]CandidateMatchResponse, 0, len(rep.Candidates)),
		Message:            rep.Message,
	}
	for _, r := range rep.Candidates {
		out.Candidates = append(out.Candidates, newCandidateMatch(r))
	}
	return out
}

func newCandidateMatch(r matching.Ranked[candidate.Candidate]) CandidateMatchResponse {
	return CandidateMatchResponse{
		CandidateID:         r.Subject.ID,
		FullName:            r.Subject.FullName(),
		MatchResultResponse: NewMatchResult(r.Result),
	}
}

func NewCandidateMatchReport(rep usecase.CandidateMatchReport) CandidateMatchReportResponse {
	out := CandidateMatchReportResponse{
		CandidateID: rep.Candidate.ID,
		Jobs:        make([]JobMatchResponse, 0, len(rep.Jobs)),
		Message:     rep.Message,
	}
	for _, r := range rep.Jobs {
		out.Jobs = append(out.Jobs, newJobMatch(r))
	}
	return out
}

func newJobMatch(r matching.Ranked[job.Job]) JobMatchResponse {
	return JobMatchResponse{
		JobID:               r.Subject.ID,
		Title:               r.Subject.Title,
		Company:             r.Subject.Company,
		MatchResultResponse: NewMatchResult(r.Result),
	}
}
