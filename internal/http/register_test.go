package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"plenapos/internal/domain"
	"plenapos/internal/services"
)

func TestRegisterCheckoutChargesSnapshotPrice(t *testing.T) {
	app, svc := newAPIApp(t)
	seed(t, svc, skol(10))

	resp, body := do(t, app, "POST", "/api/v1/registers/caixa-1/cart/items", `{"id":"1","quantity":2}`)
	var v services.CartView
	_ = json.Unmarshal(body, &v)
	if resp.StatusCode != http.StatusOK || v.Total != 6.98 || v.Lines != 1 {
		t.Fatalf("add: %d %s", resp.StatusCode, body)
	}
	_, body = do(t, app, "PATCH", "/api/v1/registers/caixa-1/cart/items/1", `{"delta":1}`)
	_ = json.Unmarshal(body, &v)
	if v.Total != 10.47 {
		t.Fatalf("update: %s", body)
	}

	// price edit while the cart is open
	resp, body = do(t, app, "POST", "/api/v1/products", `{"id":"1","name":"Cerveja Skol Lata 350ml","price":5,"cost":2.69,"stock":10,"category":"Cervejas"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("price edit: %d %s", resp.StatusCode, body)
	}

	entries := captureLogs(t, func() {
		resp, body = do(t, app, "POST", "/api/v1/registers/caixa-1/checkout", `{"paymentMethod":"Pix"}`)
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: %d %s", resp.StatusCode, body)
	}
	var sale domain.Sale
	_ = json.Unmarshal(body, &sale)
	if sale.Total != 10.47 || sale.Items[0].Price != 3.49 {
		t.Fatalf("charged %s", body)
	}
	commit, ok := findAction(entries, "sale.commit")
	if !ok || commit.Source != "http" || commit.Fields["register"] != "caixa-1" || commit.Fields["sale_id"] != sale.ID {
		t.Fatalf("sale.commit audit: %+v", entries)
	}

	_, body = do(t, app, "GET", "/api/v1/registers/caixa-1/cart", "")
	_ = json.Unmarshal(body, &v)
	if v.Lines != 0 {
		t.Fatalf("cart not cleared: %s", body)
	}
	if p, _ := svc.Catalog.Get(t.Context(), "1"); p.Stock != 7 {
		t.Fatalf("stock = %d, want 7", p.Stock)
	}
}

func TestRegisterCartEditing(t *testing.T) {
	app, svc := newAPIApp(t)
	seed(t, svc, skol(10))

	do(t, app, "POST", "/api/v1/registers/a/cart/items", `{"id":"1"}`)
	_, body := do(t, app, "GET", "/api/v1/registers/a/cart", "")
	var v services.CartView
	_ = json.Unmarshal(body, &v)
	if v.Lines != 1 || v.Items[0].Quantity != 1 {
		t.Fatalf("default quantity: %s", body)
	}

	resp, body := do(t, app, "DELETE", "/api/v1/registers/a/cart/items/1", "")
	_ = json.Unmarshal(body, &v)
	if resp.StatusCode != http.StatusOK || v.Lines != 0 {
		t.Fatalf("remove: %d %s", resp.StatusCode, body)
	}
	do(t, app, "POST", "/api/v1/registers/a/cart/items", `{"id":"1","quantity":4}`)
	_, body = do(t, app, "DELETE", "/api/v1/registers/a/cart", "")
	_ = json.Unmarshal(body, &v)
	if v.Lines != 0 || v.Items == nil {
		t.Fatalf("clear: %s", body)
	}
}

func TestRegisterRejects(t *testing.T) {
	app, svc := newAPIApp(t)
	seed(t, svc, skol(10))

	cases := []struct{ method, target, body string }{
		{"POST", "/api/v1/registers/a/checkout", `{"paymentMethod":"Pix"}`},
		{"POST", "/api/v1/registers/a/cart/items", `{"id":"99","quantity":1}`},
		{"POST", "/api/v1/registers/a/cart/items", `{"id":"1","quantity":10000}`},
		{"POST", "/api/v1/registers/%3Cx%3E/cart/items", `{"id":"1","quantity":1}`},
		{"PATCH", "/api/v1/registers/a/cart/items/1", `{"delta":100000}`},
	}
	for _, c := range cases {
		resp, body := do(t, app, c.method, c.target, c.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s %s: want 400, got %d %s", c.method, c.target, c.body, resp.StatusCode, body)
		}
	}

	do(t, app, "POST", "/api/v1/registers/a/cart/items", `{"id":"1","quantity":1}`)
	resp, body := do(t, app, "POST", "/api/v1/registers/a/checkout", `{"paymentMethod":"Boleto"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown payment: want 400, got %d %s", resp.StatusCode, body)
	}
	if sales, _ := svc.Ledger.List(t.Context()); len(sales) != 0 {
		t.Fatalf("ledger written: %+v", sales)
	}
}
