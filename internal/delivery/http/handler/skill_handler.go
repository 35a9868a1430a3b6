package handler

import (
	"inclusion-engine/internal/delivery/http/dto"
	"inclusion-engine/internal/delivery/http/middleware"
	"inclusion-engine/internal/pkg/response"
	"inclusion-engine/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/skills", h.ListSkills)
}

func (h *SkillHandler) ListSkills(c fiber.Ctx) error {
	var q dto.SkillListQuery
	if err := c.Bind().Query(&q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validationError(q); err != nil {
		return err
	}

	items, err := h.uc.ListSkills(c.Context(), q.Active != "false")
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewSkills(items))
}
