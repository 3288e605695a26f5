package app

import (
	"fmt"
	"strings"

	"applyflow/internal/config"
	"applyflow/internal/delivery/http/handler"
	"applyflow/internal/delivery/http/middleware"
	"applyflow/internal/delivery/http/routes"
	"applyflow/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
		// Resume uploads travel in the JSON body.
		BodyLimit: 10 * 1024 * 1024,
	})

	errMw := middleware.NewErrorMiddleware(c.Logger)
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	registry := &routes.Registry{
		Health:          c.Health,
		Applications:    handler.NewApplicationHandler(c.Applications),
		Recommendations: handler.NewRecommendationHandler(c.Recommendations),
		SavedJobs:       handler.NewSavedJobHandler(c.SavedJobs),
		Jobs:            handler.NewJobHandler(c.Jobs),
		WS:              ws.NewHandler(c.Hub, c.Logger),
	}
	registry.Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
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
