package handler

import (
	"context"
	"time"

	"applyflow/internal/database"
	"applyflow/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    database.DB
	cache pinger
}

func NewHealthHandler(db database.DB, cache pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports degraded rather than failing when redis is down; the
// service keeps working without it.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok", "cache": "ok"}
	status := "ok"

	if h.db == nil || h.db.Ping(ctx) != nil {
		checks["database"] = "down"
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", checks)
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		checks["cache"] = "down"
		status = "degraded"
	}

	return response.Success(c, fiber.StatusOK, status, checks)
}
