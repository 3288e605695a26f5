package routes

import (
	"applyflow/internal/delivery/http/handler"
	"applyflow/internal/delivery/http/middleware"
	"applyflow/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health          *handler.HealthHandler
	Applications    *handler.ApplicationHandler
	Recommendations *handler.RecommendationHandler
	SavedJobs       *handler.SavedJobHandler
	Jobs            *handler.JobHandler
	WS              *ws.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.WS != nil {
		app.Get("/ws/notifications", r.WS.HandleNotificationsWS)
	}

	identity := middleware.NewIdentityMiddleware()
	api := app.Group("/api/v1", identity.Middleware())

	if r.Applications != nil {
		r.Applications.RegisterRoutes(api)
	}
	if r.Recommendations != nil {
		r.Recommendations.RegisterRoutes(api)
	}
	if r.SavedJobs != nil {
		r.SavedJobs.RegisterRoutes(api)
	}
	if r.Jobs != nil {
		r.Jobs.RegisterRoutes(api)
	}
}
