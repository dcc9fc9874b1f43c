package handler

import (
	"quizcraft/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process liveness and cache connectivity.
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Healthz godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if h.cache != nil {
		if err := h.cache.Ping(c.UserContext()); err != nil {
			status["status"] = "degraded"
			status["cache"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		status["cache"] = "ok"
	}

	return c.JSON(status)
}
