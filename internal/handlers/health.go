package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/services"
)

// Health handles GET /healthz
// @Summary Service health
// @Description Database, session store and media backend reachability
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /healthz [get]
func (a *App) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(a.Cfg, a.DB, a.Log)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
