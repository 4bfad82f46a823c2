package repos

import (
	"context"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
)

// CatalogRepo owns the product list. Callers serialise writes.
type CatalogRepo struct{ st kv.Store }

func NewCatalogRepo(st kv.Store) *CatalogRepo { return &CatalogRepo{st: st} }

// List returns the full catalog snapshot. Never nil.
func (r *CatalogRepo) List(ctx context.Context) ([]domain.Product, error) {
	return loadList[domain.Product](ctx, r.st, ProductsKey)
}

// Get returns domain.ErrNotFound when no product has the id.
func (r *CatalogRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

// Upsert replaces the product with the same id or appends it.
func (r *CatalogRepo) Upsert(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	products, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, p)
	}
	return r.Replace(ctx, products)
}

// Delete removes the product; a missing id is not an error.
func (r *CatalogRepo) Delete(ctx context.Context, id string) (bool, error) {
	products, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return false, nil
	}
	return true, r.Replace(ctx, kept)
}

// ApplyStockDeltas subtracts each delta from the matching product and writes the catalog.
func (r *CatalogRepo) ApplyStockDeltas(ctx context.Context, deltas map[string]int) error {
	b := kv.Batch{}
	if _, err := r.StageStockDeltas(ctx, b, deltas); err != nil {
		return err
	}
	return flush(ctx, r.st, b)
}

// StageStockDeltas puts the decremented catalog into b and returns it.
// Ids with no matching product are skipped.
func (r *CatalogRepo) StageStockDeltas(ctx context.Context, b kv.Batch, deltas map[string]int) ([]domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	products = ApplyDeltas(products, deltas)
	if err := stage(b, ProductsKey, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CatalogRepo) StageReplace(b kv.Batch, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	return stage(b, ProductsKey, products)
}

// Replace overwrites the whole catalog.
func (r *CatalogRepo) Replace(ctx context.Context, products []domain.Product) error {
	b := kv.Batch{}
	if err := r.StageReplace(b, products); err != nil {
		return err
	}
	return flush(ctx, r.st, b)
}

// ApplyDeltas returns products with stock reduced by deltas[id]; the input slice is untouched.
func ApplyDeltas(products []domain.Product, deltas map[string]int) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	for i := range out {
		if d, ok := deltas[out[i].ID]; ok {
			out[i].Stock -= d
		}
	}
	return out
}
