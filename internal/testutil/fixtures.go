// Package testutil provides shared fixtures for engine tests.
package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/basket/internal/catalog"
)

// Product builds a plain product snapshot priced in currency minor units.
func Product(id string, price int64, stock int) catalog.Product {
	return catalog.Product{
		ID:            id,
		Name:          id,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
	}
}

// PromoProduct builds a product snapshot with an active promotion.
// The promotion end marker is set one hour in the future; engines never
// consult it, so tests that rely on that behavior can move it freely.
func PromoProduct(id string, price, promoPrice int64, stock int) catalog.Product {
	p := Product(id, price, stock)
	promo := decimal.NewFromInt(promoPrice)
	endsAt := time.Now().Add(time.Hour).UTC()
	p.PromotionActive = true
	p.PromotionPrice = &promo
	p.PromotionEndsAt = &endsAt
	return p
}

// ProductWithImages builds a product snapshot carrying image references.
func ProductWithImages(id string, price int64, stock int, images ...string) catalog.Product {
	p := Product(id, price, stock)
	p.Images = images
	return p
}
