package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"plenapos/internal/config"
	"plenapos/internal/domain"
	"plenapos/internal/http/handlers"
	"plenapos/internal/kv"
	"plenapos/internal/services"
)

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{TemplatesDir: "../../web/templates", DefaultMinStock: 10, AIModel: "m"}
}

// newAPIApp returns the full app over an in-memory SQLite store with a fixed clock.
func newAPIApp(t *testing.T) (*fiber.App, *services.Services) {
	t.Helper()
	st, err := kv.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := services.New(st, testConfig())
	svc.Checkout.Now = func() time.Time { return testNow }
	svc.Backup.Now = func() time.Time { return testNow }
	svc.Reports.Now = func() time.Time { return testNow }
	return handlers.NewApp(testConfig(), svc), svc
}

func seed(t *testing.T, svc *services.Services, ps ...domain.Product) {
	t.Helper()
	if err := svc.Catalog.Replace(t.Context(), ps); err != nil {
		t.Fatal(err)
	}
}

func skol(stock int) domain.Product {
	return domain.Product{ID: "1", Name: "Cerveja Skol Lata 350ml", Price: 3.49, Cost: 2.69, Stock: stock, MinStock: 5, Category: domain.CategoryBeer}
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

type logEntry struct {
	Level  string         `json:"level"`
	Source string         `json:"source"`
	ReqID  string         `json:"req_id"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
