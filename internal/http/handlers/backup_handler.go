package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "plenapos/internal/log"
	"plenapos/internal/services"
)

type BackupHandler struct {
	Backup *services.BackupService
}

// GET /api/v1/backup
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	out, err := h.Backup.Export(c.UserContext())
	if err != nil {
		return fail(c, "backup.export", err)
	}
	applog.Audit(c, "backup.export", map[string]any{"bytes": len(out)})
	c.Attachment(services.FileName(h.Backup.Now()))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(out)
}

// POST /api/v1/backup
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	rep, err := h.Backup.Import(c.UserContext(), c.Body())
	if err != nil {
		return fail(c, "backup.import", err)
	}
	applog.Audit(c, "backup.import", map[string]any{
		"products": rep.Products,
		"sales":    rep.Sales,
		"skipped":  len(rep.Skipped),
	})
	return c.JSON(rep)
}
