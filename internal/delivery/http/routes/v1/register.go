package v1

import (
	"inclusion-engine/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Skills     *handler.SkillHandler
	Candidates *handler.CandidateHandler
	Jobs       *handler.JobHandler
}

// Register mounts the engine API. auth, when non-nil, guards every route.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}
	if auth != nil {
		r = r.Group("", auth)
	}

	h.Skills.RegisterRoutes(r)
	h.Candidates.RegisterRoutes(r)
	h.Jobs.RegisterRoutes(r)
}
