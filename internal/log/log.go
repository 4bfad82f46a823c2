// Package log writes the store's event trail: one JSON object per line through the
// standard logger, so LOG_FILE mirroring and tests see a single stream.
package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"plenapos/internal/domain"
)

// Sources of an entry.
const (
	SourceHTTP = "http"
	SourceCore = "core" // CLI, startup and background work
)

const startedKey = "log.started"

type entry struct {
	TS        string         `json:"ts"`
	Level     string         `json:"level"`
	Source    string         `json:"source"`
	ReqID     string         `json:"req_id,omitempty"`
	IP        string         `json:"ip,omitempty"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Action    string         `json:"action,omitempty"`
	Status    int            `json:"status,omitempty"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Err       string         `json:"err,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Source: SourceCore, Action: action, Fields: fields}
	if c != nil {
		e.Source = SourceHTTP
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
		if started, ok := c.Locals(startedKey).(time.Time); ok {
			e.LatencyMs = time.Since(started).Milliseconds()
		}
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

// Timing marks the request start; entries written later in the request carry latency_ms.
func Timing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(startedKey, time.Now())
		return c.Next()
	}
}

// SaleFields is the audit payload of a committed sale.
func SaleFields(s domain.Sale) map[string]any {
	return map[string]any{
		"sale_id": s.ID,
		"total":   s.Total,
		"items":   len(s.Items),
		"payment": string(s.PaymentMethod),
	}
}

// ProductFields is the audit payload of a catalog change.
func ProductFields(p domain.Product) map[string]any {
	return map[string]any{"product_id": p.ID, "stock": p.Stock, "price": p.Price}
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }

// Audit records a state change to the catalog or ledger.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}

func Warn(c *fiber.Ctx, action string, fields map[string]any) { write("warn", c, action, nil, fields) }

// Security records rejected input.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
