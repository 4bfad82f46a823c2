package handlers

import (
	"github.com/gofiber/fiber/v2"

	"plenapos/internal/domain"
	applog "plenapos/internal/log"
	"plenapos/internal/services"
	"plenapos/internal/validate"
)

type RegisterHandler struct {
	Registers *services.RegisterService
}

type addLineRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type updateLineRequest struct {
	Delta int `json:"delta"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func registerParam(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("register"))
}

// GET /api/v1/registers/:register/cart
func (h *RegisterHandler) View(c *fiber.Ctx) error {
	reg, ok := registerParam(c)
	if !ok {
		return badRequest(c, "register", "invalid register")
	}
	return c.JSON(h.Registers.View(reg))
}

// POST /api/v1/registers/:register/cart/items
func (h *RegisterHandler) Add(c *fiber.Ctx) error {
	reg, ok := registerParam(c)
	if !ok {
		return badRequest(c, "register", "invalid register")
	}
	var req addLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid cart line")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	id, ok := validate.ID(req.ID)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	if !validate.Qty(req.Quantity) {
		return badRequest(c, "quantity", "quantity must be between 1 and 9999")
	}
	v, err := h.Registers.Add(c.UserContext(), reg, id, req.Quantity)
	if err != nil {
		return fail(c, "register.cart.add", err)
	}
	return c.JSON(v)
}

// PATCH /api/v1/registers/:register/cart/items/:id
func (h *RegisterHandler) Update(c *fiber.Ctx) error {
	reg, ok := registerParam(c)
	if !ok {
		return badRequest(c, "register", "invalid register")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var req updateLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid quantity change")
	}
	if req.Delta < -9999 || req.Delta > 9999 {
		return badRequest(c, "delta", "delta out of range")
	}
	return c.JSON(h.Registers.Update(reg, id, req.Delta))
}

// DELETE /api/v1/registers/:register/cart/items/:id
func (h *RegisterHandler) Remove(c *fiber.Ctx) error {
	reg, ok := registerParam(c)
	if !ok {
		return badRequest(c, "register", "invalid register")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	return c.JSON(h.Registers.Remove(reg, id))
}

// DELETE /api/v1/registers/:register/cart
func (h *RegisterHandler) Clear(c *fiber.Ctx) error {
	reg, ok := registerParam(c)
	if !ok {
		return badRequest(c, "register", "invalid register")
	}
	return c.JSON(h.Registers.Clear(reg))
}

// POST /api/v1/registers/:register/checkout
func (h *RegisterHandler) Checkout(c *fiber.Ctx) error {
	reg, ok := registerParam(c)
	if !ok {
		return badRequest(c, "register", "invalid register")
	}
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid checkout payload")
	}
	pm, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return fail(c, "register.checkout", err)
	}
	sale, err := h.Registers.Checkout(c.UserContext(), reg, pm)
	if err != nil {
		return fail(c, "register.checkout", err)
	}
	fields := applog.SaleFields(sale)
	fields["register"] = reg
	applog.Audit(c, "sale.commit", fields)
	return c.Status(fiber.StatusCreated).JSON(sale)
}
