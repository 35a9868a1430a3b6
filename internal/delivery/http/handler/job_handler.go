package handler

import (
	"inclusion-engine/internal/delivery/http/dto"
	"inclusion-engine/internal/delivery/http/middleware"
	"inclusion-engine/internal/pkg/response"
	"inclusion-engine/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	matching  usecase.MatchingUsecase
	proximity usecase.ProximityUsecase
}

func NewJobHandler(matching usecase.MatchingUsecase, proximity usecase.ProximityUsecase) *JobHandler {
	return &JobHandler{matching: matching, proximity: proximity}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/nearby", h.Nearby)
	grp.Get("/:id/candidates/matches", h.MatchCandidates)
}

func (h *JobHandler) MatchCandidates(c fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	rep, err := h.matching.MatchJobToCandidates(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewJobMatchReport(rep))
}

// Nearby filters around either explicit coordinates or a candidate's stored
// position. Non-numeric values disable the filter instead of failing.
func (h *JobHandler) Nearby(c fiber.Ctx) error {
	var q dto.NearbyQuery
	if err := c.Bind().Query(&q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validationError(q); err != nil {
		return err
	}

	var (
		res usecase.ProximityResult
		err error
	)
	if q.CandidateID != "" {
		id, perr := uuid.Parse(q.CandidateID)
		if perr != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate_id", nil, perr)
		}
		res, err = h.proximity.JobsNearCandidate(c.Context(), id, q.MaxKm)
	} else {
		res, err = h.proximity.JobsWithin(c.Context(), q.MaxKm, q.Lat, q.Lng)
	}
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewNearbyJobs(res))
}
