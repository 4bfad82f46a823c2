package services

import (
	"context"
	"strings"
	"sync"

	"plenapos/internal/domain"
	"plenapos/internal/repos"
	"plenapos/internal/report"
)

type InventoryService struct {
	mu              *sync.Mutex
	Catalog         *repos.CatalogRepo
	DefaultMinStock int
	NewID           func() string
}

func NewInventoryService(mu *sync.Mutex, catalog *repos.CatalogRepo, defaultMinStock int) *InventoryService {
	return &InventoryService{mu: mu, Catalog: catalog, DefaultMinStock: defaultMinStock, NewID: newID}
}

// ProductInput is a save request; zero values get the catalog defaults.
type ProductInput struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
	Stock    int     `json:"stock"`
	MinStock *int    `json:"minStock"`
	Category string  `json:"category"`
	Barcode  string  `json:"barcode"`
}

func (s *InventoryService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Catalog.List(ctx)
}

// Search matches q case-insensitively against name, category and barcode,
// optionally restricted to one category.
func (s *InventoryService) Search(ctx context.Context, q string, category domain.Category) ([]domain.Product, error) {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := []domain.Product{}
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(string(p.Category)), q) &&
			!strings.Contains(strings.ToLower(p.Barcode), q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Save upserts a product built from in.
func (s *InventoryService) Save(ctx context.Context, in ProductInput) (domain.Product, error) {
	p := domain.Product{
		ID:       strings.TrimSpace(in.ID),
		Name:     strings.TrimSpace(in.Name),
		Price:    in.Price,
		Cost:     in.Cost,
		Stock:    in.Stock,
		MinStock: s.DefaultMinStock,
		Category: domain.CategoryOther,
		Barcode:  strings.TrimSpace(in.Barcode),
	}
	if p.ID == "" {
		p.ID = s.NewID()
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if strings.TrimSpace(in.Category) != "" {
		c, err := domain.ParseCategory(in.Category)
		if err != nil {
			return domain.Product{}, err
		}
		p.Category = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Catalog.Upsert(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete reports whether a product was removed; a missing id is not an error.
func (s *InventoryService) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Catalog.Delete(ctx, id)
}

func (s *InventoryService) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.LowStock(products), nil
}
