package repos

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"plenapos/internal/domain"
)

// SeedThreshold is the catalog size below which the default catalog is merged in.
const SeedThreshold = 5

//go:embed seed/catalog.yaml
var seedYAML []byte

type seedFile struct {
	Products []domain.Product `yaml:"products"`
}

// DefaultCatalog parses and validates the embedded catalog.
func DefaultCatalog() ([]domain.Product, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	for _, p := range f.Products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return f.Products, nil
}

// SeedIfNeeded adds the default products whose ids are absent when the catalog holds
// fewer than SeedThreshold products. Existing products are left as they are.
// It returns how many products were added.
func SeedIfNeeded(ctx context.Context, catalog *CatalogRepo) (int, error) {
	current, err := catalog.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(current) >= SeedThreshold {
		return 0, nil
	}
	defaults, err := DefaultCatalog()
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(current))
	for _, p := range current {
		have[p.ID] = true
	}
	added := 0
	for _, p := range defaults {
		if !have[p.ID] {
			current = append(current, p)
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, catalog.Replace(ctx, current)
}
