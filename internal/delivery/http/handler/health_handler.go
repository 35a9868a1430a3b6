package handler

import (
	"context"
	"time"

	"inclusion-engine/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler takes the dependencies to probe. cache may be nil; a
// failing cache degrades the report but never fails it.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := fiber.Map{"database": "ok", "cache": "disabled"}
	status := fiber.StatusOK
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			out["database"] = "unavailable"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		out["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			out["cache"] = "unavailable"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", out)
	}
	return response.OK(c, out)
}
