package handler

import (
	"momentocake-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns the landing-page summary cards
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute dashboard stats"})
	}
	return c.JSON(stats)
}

// GetStockMovement returns daily inbound/outbound aggregates for charts
// GET /api/v1/dashboard/stock-movement?days=30
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	movement, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}
	return c.JSON(movement)
}
