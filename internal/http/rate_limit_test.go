package handlers_test

import (
	"net/http"
	"testing"
)

func TestInsightsRateLimit(t *testing.T) {
	app, _ := newAPIApp(t)

	for i := 0; i < 6; i++ {
		resp, _ := do(t, app, "GET", "/api/v1/insights", "")
		if i < 5 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 5 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}
