package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"plenapos/internal/domain"
	"plenapos/internal/kv"
	applog "plenapos/internal/log"
	"plenapos/internal/repos"
)

// CheckoutService turns a cart into a committed sale.
type CheckoutService struct {
	mu      *sync.Mutex
	st      kv.Store
	Catalog *repos.CatalogRepo
	Ledger  *repos.LedgerRepo
	Marker  *repos.MarkerRepo

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}

func NewCheckoutService(mu *sync.Mutex, st kv.Store, catalog *repos.CatalogRepo, ledger *repos.LedgerRepo, marker *repos.MarkerRepo) *CheckoutService {
	return &CheckoutService{mu: mu, st: st, Catalog: catalog, Ledger: ledger, Marker: marker, Now: now, NewID: newID}
}

// LineRequest asks for quantity units of the catalog product id.
type LineRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// BuildCart snapshots the requested products from the current catalog.
// Repeated ids are merged into one line.
func (s *CheckoutService) BuildCart(ctx context.Context, lines []LineRequest) ([]domain.CartItem, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var cart Cart
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, domain.Invalid("items.quantity", "must be positive")
		}
		p, ok := byID[l.ID]
		if !ok {
			return nil, domain.Invalid("items.id", "unknown product "+l.ID)
		}
		cart.Add(p, l.Quantity)
	}
	return cart.Items(), nil
}

// Commit records a sale for items and applies the stock deltas in the same write.
// Totals use the prices captured in items. Nothing is written when validation fails.
func (s *CheckoutService) Commit(ctx context.Context, items []domain.CartItem, pm domain.PaymentMethod) (domain.Sale, error) {
	if len(items) == 0 {
		return domain.Sale{}, domain.ErrEmptyCart
	}
	if !pm.Valid() {
		return domain.Sale{}, domain.Invalid("paymentMethod", "unknown payment method")
	}

	sale := domain.Sale{
		ID:            s.NewID(),
		Items:         append([]domain.CartItem(nil), items...),
		Total:         domain.CartTotal(items),
		PaymentMethod: pm,
	}
	domain.StampSale(&sale, s.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	b := kv.Batch{}
	sales, err := s.Ledger.StageAppend(ctx, b, sale)
	if err != nil {
		return domain.Sale{}, err
	}
	deltas := domain.StockDeltas(sale.Items)
	products, err := s.Catalog.StageStockDeltas(ctx, b, deltas)
	if err != nil {
		return domain.Sale{}, err
	}
	if err := s.Marker.Stage(b, repos.MarkerFor(sales)); err != nil {
		return domain.Sale{}, err
	}
	if err := s.st.SetMany(ctx, b); err != nil {
		return domain.Sale{}, &domain.PersistenceError{Op: "commit", Key: repos.SalesKey, Err: err}
	}

	for _, p := range products {
		if _, sold := deltas[p.ID]; sold && p.Stock < 0 {
			applog.Warn(nil, "sale.commit.oversell", map[string]any{"sale_id": sale.ID, "product_id": p.ID, "stock": p.Stock})
		}
	}
	return sale, nil
}

// CommitLines is BuildCart followed by Commit.
func (s *CheckoutService) CommitLines(ctx context.Context, lines []LineRequest, pm domain.PaymentMethod) (domain.Sale, error) {
	items, err := s.BuildCart(ctx, lines)
	if err != nil {
		return domain.Sale{}, err
	}
	return s.Commit(ctx, items, pm)
}

// IsClientError reports whether err stems from bad input rather than storage.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrImportParse)
}
