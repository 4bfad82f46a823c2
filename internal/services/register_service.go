package services

import (
	"context"
	"errors"
	"sync"

	"plenapos/internal/domain"
	"plenapos/internal/repos"
)

// RegisterService keeps the open cart of each register in memory. A line's price is
// captured when the product is added, so a catalog edit never reprices an open cart.
// Carts do not survive a restart.
type RegisterService struct {
	mu       sync.Mutex
	carts    map[string]*Cart
	Catalog *repos.CatalogRepo
	Engine  *CheckoutService
}

func NewRegisterService(catalog *repos.CatalogRepo, checkout *CheckoutService) *RegisterService {
	return &RegisterService{carts: map[string]*Cart{}, Catalog: catalog, Engine: checkout}
}

// CartView is the state of one register's cart.
type CartView struct {
	Register string            `json:"register"`
	Items    []domain.CartItem `json:"items"`
	Lines    int               `json:"lines"`
	Total    float64           `json:"total"`
}

func (s *RegisterService) cart(register string) *Cart {
	c, ok := s.carts[register]
	if !ok {
		c = &Cart{}
		s.carts[register] = c
	}
	return c
}

func view(register string, c *Cart) CartView {
	items := c.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartView{Register: register, Items: items, Lines: c.Len(), Total: c.Total()}
}

func (s *RegisterService) View(register string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view(register, s.cart(register))
}

// Add snapshots the catalog product into the register's cart.
func (s *RegisterService) Add(ctx context.Context, register, productID string, qty int) (CartView, error) {
	if qty <= 0 {
		return CartView{}, domain.Invalid("quantity", "must be positive")
	}
	p, err := s.Catalog.Get(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return CartView{}, domain.Invalid("id", "unknown product "+productID)
	}
	if err != nil {
		return CartView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(register)
	c.Add(p, qty)
	return view(register, c), nil
}

// Update moves a line's quantity by delta, never below 1. Unknown lines are ignored.
func (s *RegisterService) Update(register, productID string, delta int) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(register)
	c.UpdateQuantity(productID, delta)
	return view(register, c)
}

func (s *RegisterService) Remove(register, productID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(register)
	c.Remove(productID)
	return view(register, c)
}

func (s *RegisterService) Clear(register string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(register)
	c.Clear()
	return view(register, c)
}

// Checkout commits the cart at its snapshot prices and empties it.
// On failure the cart is left as it was.
func (s *RegisterService) Checkout(ctx context.Context, register string, pm domain.PaymentMethod) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(register)
	if c.Len() == 0 {
		return domain.Sale{}, domain.ErrEmptyCart
	}
	sale, err := s.Engine.Commit(ctx, c.Items(), pm)
	if err != nil {
		return domain.Sale{}, err
	}
	c.Clear()
	return sale, nil
}
