package catalog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is an immutable snapshot of a catalog record as supplied by the
// catalog collaborator. Engines capture the snapshot at insertion time and
// never mutate it; freshness of stock and promotion fields is the supplier's
// responsibility.
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	StockQuantity   int              `json:"stock_quantity"`
	PromotionActive bool             `json:"promotion_active"`
	PromotionPrice  *decimal.Decimal `json:"promotion_price,omitempty"`
	PromotionEndsAt *time.Time       `json:"promotion_ends_at,omitempty"`
	Images          []string         `json:"images,omitempty"`
}

// UnitPrice returns the effective per-unit price.
//
// A promotion applies when PromotionActive is set and a promotion price is
// configured. PromotionEndsAt is never consulted here - deactivating an
// expired promotion is the catalog's job, not the engine's.
func (p Product) UnitPrice() decimal.Decimal {
	if p.PromotionActive && p.PromotionPrice != nil {
		return *p.PromotionPrice
	}
	return p.Price
}

// DefaultImage returns the first image reference, or "" when the product
// has no images.
func (p Product) DefaultImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasImage reports whether ref is one of the product's image references.
func (p Product) HasImage(ref string) bool {
	for _, img := range p.Images {
		if img == ref {
			return true
		}
	}
	return false
}

// Validate checks the snapshot's field-level invariants.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s: price must be non-negative, got %s", p.ID, p.Price)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("product %s: stock quantity must be non-negative, got %d", p.ID, p.StockQuantity)
	}
	if p.PromotionPrice != nil && p.PromotionPrice.IsNegative() {
		return fmt.Errorf("product %s: promotion price must be non-negative, got %s", p.ID, p.PromotionPrice)
	}
	return nil
}
