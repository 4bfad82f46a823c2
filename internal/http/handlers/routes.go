package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"plenapos/internal/config"
	applog "plenapos/internal/log"
	"plenapos/internal/services"
)

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(cfg config.Config, svc *services.Services) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler,
		BodyLimit:    8 << 20, // backups carry the whole ledger
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(applog.Timing())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	Register(app, NewDeps(svc))
	return app
}

func Register(app *fiber.App, deps *Deps) {
	api := app.Group("/api/v1")

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/low-stock", deps.ProductHandler.LowStock)
	api.Post("/products", deps.ProductHandler.Save)
	api.Delete("/products/:id", deps.ProductHandler.Delete)

	api.Get("/sales", deps.SaleHandler.List)
	api.Post("/sales", deps.SaleHandler.Commit)

	api.Get("/registers/:register/cart", deps.RegisterHandler.View)
	api.Post("/registers/:register/cart/items", deps.RegisterHandler.Add)
	api.Patch("/registers/:register/cart/items/:id", deps.RegisterHandler.Update)
	api.Delete("/registers/:register/cart/items/:id", deps.RegisterHandler.Remove)
	api.Delete("/registers/:register/cart", deps.RegisterHandler.Clear)
	api.Post("/registers/:register/checkout", deps.RegisterHandler.Checkout)

	api.Get("/reports/summary", deps.ReportHandler.Summary)
	api.Get("/reports/daily", deps.ReportHandler.Daily)
	api.Get("/dashboard", deps.ReportHandler.Dashboard)

	api.Get("/backup", deps.BackupHandler.Export)
	api.Post("/backup", deps.BackupHandler.Import)

	// tighter budget for the model endpoint
	insightLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|insights"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.insights.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/insights", insightLimiter, deps.InsightHandler.Get)

	app.Get("/reports/print", deps.ReportHandler.Print)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Página não encontrada"})
	})
}
