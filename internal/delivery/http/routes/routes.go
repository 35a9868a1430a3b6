package routes

import (
	"inclusion-engine/internal/delivery/http/handler"
	v1 "inclusion-engine/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Handlers
	auth   fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, h v1.Handlers, auth fiber.Handler) *Registry {
	return &Registry{health: health, v1: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1, r.auth)
}
