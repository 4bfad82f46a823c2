package repos

import (
	"context"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
)

// LedgerRepo is the append-only sale history. It offers no update or delete.
type LedgerRepo struct{ st kv.Store }

func NewLedgerRepo(st kv.Store) *LedgerRepo { return &LedgerRepo{st: st} }

// List returns every sale in insertion order.
func (r *LedgerRepo) List(ctx context.Context) ([]domain.Sale, error) {
	return loadList[domain.Sale](ctx, r.st, SalesKey)
}

func (r *LedgerRepo) Append(ctx context.Context, s domain.Sale) error {
	b := kv.Batch{}
	if _, err := r.StageAppend(ctx, b, s); err != nil {
		return err
	}
	return flush(ctx, r.st, b)
}

// StageAppend validates s and puts the extended ledger into b.
// Nothing is staged when validation fails.
func (r *LedgerRepo) StageAppend(ctx context.Context, b kv.Batch, s domain.Sale) ([]domain.Sale, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sales, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	sales = append(sales, s)
	if err := stage(b, SalesKey, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// StageReplace is used by restore only.
func (r *LedgerRepo) StageReplace(b kv.Batch, sales []domain.Sale) error {
	if sales == nil {
		sales = []domain.Sale{}
	}
	return stage(b, SalesKey, sales)
}
