package services

import (
	"context"
	"sync"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
	applog "plenapos/internal/log"
	"plenapos/internal/repos"
)

// Reconciler brings catalog stock level with the ledger after a commit whose
// stock write never landed (older data, or a backend without multi-key writes).
type Reconciler struct {
	mu      *sync.Mutex
	st      kv.Store
	Catalog *repos.CatalogRepo
	Ledger  *repos.LedgerRepo
	Marker  *repos.MarkerRepo
}

func NewReconciler(mu *sync.Mutex, st kv.Store, catalog *repos.CatalogRepo, ledger *repos.LedgerRepo, marker *repos.MarkerRepo) *Reconciler {
	return &Reconciler{mu: mu, st: st, Catalog: catalog, Ledger: ledger, Marker: marker}
}

type ReconcileResult struct {
	// Applied is the number of sales whose deltas were re-applied.
	Applied int `json:"applied"`
	// Adopted is set when the marker was missing or unknown and was moved to the tail without applying anything.
	Adopted bool               `json:"adopted"`
	Marker  repos.StockMarker `json:"marker"`
}

func (r *Reconciler) Run(ctx context.Context) (ReconcileResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sales, err := r.Ledger.List(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}
	tail := repos.MarkerFor(sales)

	m, found, err := r.Marker.Get(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}
	if !found {
		return r.adopt(ctx, tail)
	}

	next, ok := position(sales, m)
	if !ok {
		applog.Warn(nil, "stock.reconcile.unknown_marker", map[string]any{"marker": m.LastSaleID, "sales": len(sales)})
		return r.adopt(ctx, tail)
	}
	pending := sales[next:]
	if len(pending) == 0 {
		if m != tail {
			return r.adopt(ctx, tail)
		}
		return ReconcileResult{Marker: m}, nil
	}

	deltas := map[string]int{}
	for _, s := range pending {
		for id, q := range domain.StockDeltas(s.Items) {
			deltas[id] += q
		}
	}
	b := kv.Batch{}
	if _, err := r.Catalog.StageStockDeltas(ctx, b, deltas); err != nil {
		return ReconcileResult{}, err
	}
	if err := r.Marker.Stage(b, tail); err != nil {
		return ReconcileResult{}, err
	}
	if err := r.st.SetMany(ctx, b); err != nil {
		return ReconcileResult{}, &domain.PersistenceError{Op: "reconcile", Key: repos.ProductsKey, Err: err}
	}
	applog.Warn(nil, "stock.reconcile", map[string]any{"applied": len(pending), "from": m.LastSaleID, "to": tail.LastSaleID})
	return ReconcileResult{Applied: len(pending), Marker: tail}, nil
}

func (r *Reconciler) adopt(ctx context.Context, tail repos.StockMarker) (ReconcileResult, error) {
	if err := r.Marker.Set(ctx, tail); err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{Adopted: true, Marker: tail}, nil
}

// position returns the index of the first sale after m.
func position(sales []domain.Sale, m repos.StockMarker) (int, bool) {
	if m.LastSaleID == "" {
		return 0, m.Count == 0
	}
	if i := m.Count - 1; i >= 0 && i < len(sales) && sales[i].ID == m.LastSaleID {
		return i + 1, true
	}
	for i := len(sales) - 1; i >= 0; i-- {
		if sales[i].ID == m.LastSaleID {
			return i + 1, true
		}
	}
	return 0, false
}
