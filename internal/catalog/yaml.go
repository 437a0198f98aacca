// YAML data-file loaders. Each loader replaces the embedded defaults when a
// data file is present, so hosts can reskin the catalog without a rebuild.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProducts reads a product catalog from a YAML file.
func LoadProducts(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	var products []Product
	if err := yaml.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d: missing id", i)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("product %q: unknown category %q", p.ID, p.Category)
		}
		if p.BaseCost < 1 || p.BasePrice < 1 {
			return nil, fmt.Errorf("product %q: cost and price must be at least 1", p.ID)
		}
	}
	return products, nil
}

// LoadEvents reads a game-event catalog from a YAML file.
func LoadEvents(path string) ([]GameEvent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	var events []GameEvent
	if err := yaml.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	for i, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("event %d: missing id", i)
		}
		for _, c := range e.BoostedCategories {
			if !c.Valid() {
				return nil, fmt.Errorf("event %q: unknown category %q", e.ID, c)
			}
		}
	}
	return events, nil
}

// LoadTiers reads a shop-tier ladder from a YAML file. Tiers must form a
// contiguous 1-based ladder.
func LoadTiers(path string) ([]ShopTier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tiers: %w", err)
	}
	var tiers []ShopTier
	if err := yaml.Unmarshal(raw, &tiers); err != nil {
		return nil, fmt.Errorf("parse tiers: %w", err)
	}
	for i, t := range tiers {
		if t.Level != i+1 {
			return nil, fmt.Errorf("tier %d: level must be %d, got %d", i, i+1, t.Level)
		}
		if t.MaxStock < 1 {
			return nil, fmt.Errorf("tier %d: max stock must be at least 1", t.Level)
		}
	}
	return tiers, nil
}
