package repos

import (
	"context"
	"encoding/json"
	"errors"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
)

// StockMarker records the last sale whose stock deltas reached the catalog.
// Count is the ledger length at that point; an empty LastSaleID with Count 0 means nothing applied yet.
type StockMarker struct {
	LastSaleID string `json:"lastSaleId"`
	Count      int    `json:"count"`
}

// MarkerFor points at the tail of sales.
func MarkerFor(sales []domain.Sale) StockMarker {
	if len(sales) == 0 {
		return StockMarker{}
	}
	return StockMarker{LastSaleID: sales[len(sales)-1].ID, Count: len(sales)}
}

type MarkerRepo struct{ st kv.Store }

func NewMarkerRepo(st kv.Store) *MarkerRepo { return &MarkerRepo{st: st} }

// Get reports found=false when no marker has ever been written.
func (r *MarkerRepo) Get(ctx context.Context) (StockMarker, bool, error) {
	raw, err := r.st.Get(ctx, MarkerKey)
	if errors.Is(err, kv.ErrNotFound) {
		return StockMarker{}, false, nil
	}
	if err != nil {
		return StockMarker{}, false, &domain.PersistenceError{Op: "get", Key: MarkerKey, Err: err}
	}
	var m StockMarker
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return StockMarker{}, false, &domain.PersistenceError{Op: "decode", Key: MarkerKey, Err: err}
	}
	return m, true, nil
}

func (r *MarkerRepo) Stage(b kv.Batch, m StockMarker) error { return stage(b, MarkerKey, m) }

func (r *MarkerRepo) Set(ctx context.Context, m StockMarker) error {
	b := kv.Batch{}
	if err := r.Stage(b, m); err != nil {
		return err
	}
	return flush(ctx, r.st, b)
}
