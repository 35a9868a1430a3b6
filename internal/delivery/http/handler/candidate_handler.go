package handler

import (
	"inclusion-engine/internal/delivery/http/dto"
	"inclusion-engine/internal/delivery/http/middleware"
	"inclusion-engine/internal/pkg/response"
	"inclusion-engine/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CandidateHandler struct {
	sis        usecase.SISUsecase
	evaluation usecase.EvaluationUsecase
	aids       usecase.AidUsecase
	matching   usecase.MatchingUsecase
	responses  usecase.ResponseUsecase
}

func NewCandidateHandler(
	sis usecase.SISUsecase,
	evaluation usecase.EvaluationUsecase,
	aids usecase.AidUsecase,
	matching usecase.MatchingUsecase,
	responses usecase.ResponseUsecase,
) *CandidateHandler {
	return &CandidateHandler{sis: sis, evaluation: evaluation, aids: aids, matching: matching, responses: responses}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/candidates/:id")
	grp.Get("/sis", h.SummarizeSIS)
	grp.Get("/evaluation", h.Evaluate)
	grp.Get("/aids/recommendations", h.RecommendAids)
	grp.Get("/jobs/matches", h.MatchJobs)
	grp.Put("/responses/:question_id", h.WriteResponse)
	grp.Get("/questionnaires/:questionnaire_id/status", h.Status)
	grp.Post("/questionnaires/:questionnaire_id/finalize", h.Finalize)
}

func (h *CandidateHandler) SummarizeSIS(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var q dto.SISQuery
	if err := c.Bind().Query(&q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validationError(q); err != nil {
		return err
	}

	sections, err := h.sis.SummarizeSIS(c.Context(), id, q.Section)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, sections)
}

func (h *CandidateHandler) Evaluate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	rep, err := h.evaluation.Evaluate(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, rep)
}

func (h *CandidateHandler) RecommendAids(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	rec, err := h.aids.RecommendAids(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewAidRecommendation(rec))
}

func (h *CandidateHandler) MatchJobs(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	rep, err := h.matching.MatchCandidateToJobs(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCandidateMatchReport(rep))
}

func (h *CandidateHandler) WriteResponse(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	qid, err := int64Param(c, "question_id")
	if err != nil {
		return err
	}

	var req dto.WriteResponseRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validationError(req); err != nil {
		return err
	}

	out, err := h.responses.WriteResponse(c.Context(), id, qid, req.Payload)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewWriteResponse(out))
}

func (h *CandidateHandler) Finalize(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	qid, err := int64Param(c, "questionnaire_id")
	if err != nil {
		return err
	}

	res, err := h.responses.Finalize(c.Context(), id, qid)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewFinalize(res))
}

func (h *CandidateHandler) Status(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	qid, err := int64Param(c, "questionnaire_id")
	if err != nil {
		return err
	}

	st, err := h.responses.Status(c.Context(), id, qid)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewQuestionnaireStatus(st))
}
