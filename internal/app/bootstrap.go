package app

import (
	"fmt"
	"strings"

	"inclusion-engine/internal/config"
	"inclusion-engine/internal/delivery/http/handler"
	"inclusion-engine/internal/delivery/http/middleware"
	"inclusion-engine/internal/delivery/http/routes"
	v1 "inclusion-engine/internal/delivery/http/routes/v1"
	"inclusion-engine/internal/pkg/jwt"
	"inclusion-engine/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects the dependencies and builds the HTTP app. The returned
// cleanup closes the container.
func Bootstrap(cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var auth fiber.Handler
	if secret := c.Config.JWT.AccessSecret; secret != "" {
		auth = middleware.NewAuthMiddleware(jwt.NewHMACService(secret)).Middleware()
	} else {
		c.Log.Warn("JWT_ACCESS_SECRET not set, API routes are unauthenticated")
	}

	var cachePinger handler.Pinger
	if c.Cache != nil {
		cachePinger = c.Cache
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		v1.Handlers{
			Skills:     handler.NewSkillHandler(c.Skills),
			Candidates: handler.NewCandidateHandler(c.SIS, c.Evaluation, c.Aids, c.Matching, c.Writes),
			Jobs:       handler.NewJobHandler(c.Matching, c.Proximity),
		},
		auth,
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
