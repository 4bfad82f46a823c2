package handlers

import (
	"github.com/gofiber/fiber/v2"

	"plenapos/internal/services"
)

type InsightHandler struct {
	Insights *services.InsightService
}

// GET /api/v1/insights
func (h *InsightHandler) Get(c *fiber.Ctx) error {
	text, err := h.Insights.Generate(c.UserContext())
	if err != nil {
		return fail(c, "insights", err)
	}
	return c.JSON(fiber.Map{"text": text})
}
