package handlers

import (
	"github.com/gofiber/fiber/v2"

	"plenapos/internal/domain"
	applog "plenapos/internal/log"
	"plenapos/internal/services"
	"plenapos/internal/validate"
)

type ProductHandler struct {
	Inventory *services.InventoryService
}

// GET /api/v1/products?q=&category=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q string
	if raw := c.Query("q"); raw != "" {
		v, ok := validate.Q(raw)
		if !ok {
			return badRequest(c, "q", "invalid search query")
		}
		q = v
	}
	var cat domain.Category
	if raw := c.Query("category"); raw != "" {
		parsed, err := domain.ParseCategory(raw)
		if err != nil {
			return fail(c, "product.list", err)
		}
		cat = parsed
	}
	products, err := h.Inventory.Search(c.UserContext(), q, cat)
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.Inventory.LowStock(c.UserContext())
	if err != nil {
		return fail(c, "product.low_stock", err)
	}
	return c.JSON(fiber.Map{"count": len(products), "products": products})
}

// POST /api/v1/products
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid product payload")
	}
	if in.ID != "" {
		if _, ok := validate.ID(in.ID); !ok {
			return badRequest(c, "id", "invalid id")
		}
	}
	if _, ok := validate.Name(in.Name); !ok {
		return badRequest(c, "name", "name is required")
	}
	p, err := h.Inventory.Save(c.UserContext(), in)
	if err != nil {
		return fail(c, "product.save", err)
	}
	applog.Audit(c, "product.save", applog.ProductFields(p))
	return c.Status(fiber.StatusOK).JSON(p)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid id")
	}
	removed, err := h.Inventory.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.delete", err)
	}
	if removed {
		applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
