package handlers

import (
	"github.com/gofiber/fiber/v2"

	"plenapos/internal/domain"
	applog "plenapos/internal/log"
	"plenapos/internal/services"
	"plenapos/internal/validate"
)

type SaleHandler struct {
	Checkout *services.CheckoutService
	Reports  *services.ReportService
}

type commitRequest struct {
	Items         []services.LineRequest `json:"items"`
	PaymentMethod string                 `json:"paymentMethod"`
}

// GET /api/v1/sales?limit=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit := validate.Limit(c.Query("limit"), 50, 1000)
	sales, err := h.Reports.Recent(c.UserContext(), limit)
	if err != nil {
		return fail(c, "sale.list", err)
	}
	return c.JSON(sales)
}

// POST /api/v1/sales
// One-shot checkout: the cart is built from the catalog as it stands now, so its
// snapshot is taken at commit time. Registers take it when each line is added.
func (h *SaleHandler) Commit(c *fiber.Ctx) error {
	var req commitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid sale payload")
	}
	pm, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return fail(c, "sale.commit", err)
	}
	for _, l := range req.Items {
		if _, ok := validate.ID(l.ID); !ok {
			return badRequest(c, "items.id", "invalid product id")
		}
		if !validate.Qty(l.Quantity) {
			return badRequest(c, "items.quantity", "quantity must be between 1 and 9999")
		}
	}

	sale, err := h.Checkout.CommitLines(c.UserContext(), req.Items, pm)
	if err != nil {
		return fail(c, "sale.commit", err)
	}
	applog.Audit(c, "sale.commit", applog.SaleFields(sale))
	return c.Status(fiber.StatusCreated).JSON(sale)
}
