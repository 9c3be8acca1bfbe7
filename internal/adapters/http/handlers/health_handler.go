package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles GET /
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"name":    "Daily Collection API",
		"version": "1.0",
	})
}

// HealthCheck handles GET /health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "OK"
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		status = "DEGRADED"
		dbStatus = "down"
	}

	return response.OK(c, fiber.Map{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
