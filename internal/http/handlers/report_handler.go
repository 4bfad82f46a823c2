package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"plenapos/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET /api/v1/reports/summary?start=&end=&preset=
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.Reports.Summary(c.UserContext(), c.Query("preset"), c.Query("start"), c.Query("end"))
	if err != nil {
		return fail(c, "report.summary", err)
	}
	return c.JSON(sum)
}

// GET /api/v1/reports/daily?end=&days=  or  ?start=&end=
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	if start := c.Query("start"); start != "" {
		buckets, err := h.Reports.DailyRange(c.UserContext(), start, c.Query("end"))
		if err != nil {
			return fail(c, "report.daily", err)
		}
		return c.JSON(buckets)
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "days", "days must be a number")
		}
		days = n
	}
	buckets, err := h.Reports.Daily(c.UserContext(), c.Query("end"), days)
	if err != nil {
		return fail(c, "report.daily", err)
	}
	return c.JSON(buckets)
}

// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, "report.dashboard", err)
	}
	return c.JSON(d)
}

// GET /reports/print?start=&end=&preset=
func (h *ReportHandler) Print(c *fiber.Ctx) error {
	sum, err := h.Reports.Summary(c.UserContext(), c.Query("preset"), c.Query("start"), c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Período inválido."})
	}
	return render(c, "report", fiber.Map{"S": sum})
}
