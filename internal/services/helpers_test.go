package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"plenapos/internal/config"
	"plenapos/internal/domain"
	"plenapos/internal/kv"
	"plenapos/internal/services"
)

var fixedNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

// memsvc returns services over a fresh in-memory SQLite store with a fixed clock and sequential ids.
func memsvc(t *testing.T) *services.Services {
	t.Helper()
	st, err := kv.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return svcOver(st)
}

// svcOver wires services over st with the same fixed clock and ids as memsvc.
func svcOver(st kv.Store) *services.Services {
	svc := services.New(st, config.Config{DefaultMinStock: 10, AIModel: "test-model"})
	n := 0
	svc.Checkout.NewID = func() string { n++; return fmt.Sprintf("sale-%d", n) }
	svc.Checkout.Now = func() time.Time { return fixedNow }
	svc.Backup.Now = func() time.Time { return fixedNow.Add(30 * time.Minute) }
	svc.Reports.Now = func() time.Time { return fixedNow }
	return svc
}

func skol(stock int) domain.Product {
	return domain.Product{ID: "1", Name: "Cerveja Skol Lata 350ml", Price: 3.49, Cost: 2.69, Stock: stock, MinStock: 5, Category: domain.CategoryBeer}
}

func guarana(stock int) domain.Product {
	return domain.Product{ID: "2", Name: "Guaraná Antarctica 2L", Price: 9.99, Cost: 6.5, Stock: stock, MinStock: 4, Category: domain.CategorySoda}
}

func seedCatalog(t *testing.T, svc *services.Services, ps ...domain.Product) {
	t.Helper()
	if err := svc.Catalog.Replace(context.Background(), ps); err != nil {
		t.Fatal(err)
	}
}

func stockOf(t *testing.T, svc *services.Services, id string) domain.Product {
	t.Helper()
	p, err := svc.Catalog.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

var errQuota = errors.New("quota exceeded")

// failingStore passes reads and single writes through and fails every SetMany once armed.
type failingStore struct {
	kv.Store
	armed bool
}

func (f *failingStore) SetMany(ctx context.Context, b kv.Batch) error {
	if f.armed {
		return errQuota
	}
	return f.Store.SetMany(ctx, b)
}

// failingsvc returns services over a failingStore; arm it after seeding.
func failingsvc(t *testing.T) (*services.Services, *failingStore) {
	t.Helper()
	st, err := kv.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	fs := &failingStore{Store: st}
	return svcOver(fs), fs
}

// assertUntouched checks that nothing was committed after a failed write.
func assertUntouched(t *testing.T, svc *services.Services, wantSales int, wantStock int) {
	t.Helper()
	ctx := context.Background()
	sales, err := svc.Ledger.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != wantSales {
		t.Fatalf("ledger has %d sales, want %d", len(sales), wantSales)
	}
	if got := stockOf(t, svc, "1").Stock; got != wantStock {
		t.Fatalf("stock = %d, want %d", got, wantStock)
	}
	if _, found, err := svc.Marker.Get(ctx); err != nil || found {
		t.Fatalf("marker written: found=%v err=%v", found, err)
	}
}
