package services_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"plenapos/internal/config"
	"plenapos/internal/domain"
	"plenapos/internal/kv"
	"plenapos/internal/repos"
	"plenapos/internal/services"
)

func insightSvc(t *testing.T, endpoint string) *services.InsightService {
	t.Helper()
	st := kv.NewMemoryStore()
	catalog := repos.NewCatalogRepo(st)
	_ = catalog.Replace(context.Background(), []domain.Product{skol(2), guarana(50)})
	cfg := config.Config{APIKey: "k", AIModel: "m", AIEndpoint: endpoint, AITimeout: 2 * time.Second}
	return services.NewInsightService(cfg, catalog, repos.NewLedgerRepo(st))
}

func TestInsights_NoKey(t *testing.T) {
	svc := insightSvc(t, "http://127.0.0.1:1")
	svc.APIKey = ""
	got, err := svc.Generate(context.Background())
	if err != nil || got != services.InsightNoKey {
		t.Fatalf("got %q %v", got, err)
	}
}

func TestInsights_CallsModel(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/m:generateContent" || r.Header.Get("x-goog-api-key") != "k" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{
				map[string]any{"text": "1. Reponha a Skol."},
			}}}},
		})
	}))
	defer srv.Close()

	got, err := insightSvc(t, srv.URL).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "1. Reponha a Skol." {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(body, "lowStockAlerts") || !strings.Contains(body, "Cerveja Skol Lata 350ml") {
		t.Fatalf("digest missing from prompt: %s", body)
	}
}

func TestInsights_FallbackAndBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := insightSvc(t, srv.URL)
	for i := 0; i < 5; i++ {
		got, err := svc.Generate(context.Background())
		if err != nil || got != services.InsightFailed {
			t.Fatalf("call %d: got %q %v", i, got, err)
		}
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("breaker should stop calls after 3 failures, server saw %d", n)
	}
}

func TestInsights_EmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	got, _ := insightSvc(t, srv.URL).Generate(context.Background())
	if got != services.InsightEmpty {
		t.Fatalf("got %q", got)
	}
}

func TestBuildInsightSummary(t *testing.T) {
	sales := []domain.Sale{rawSale("a", skol(10), 2)}
	sum := services.BuildInsightSummary([]domain.Product{skol(2), guarana(50)}, sales)
	if sum.TotalSalesCount != 1 || len(sum.LowStockAlerts) != 1 || sum.RecentTransactions[0].Items != "2x Cerveja Skol Lata 350ml" {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
