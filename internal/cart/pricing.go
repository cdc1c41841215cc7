package cart

import "github.com/shopspring/decimal"

// Shipping is waived only when the subtotal is strictly greater than the
// threshold; a subtotal exactly at the threshold still pays the flat fee.
var (
	FreeShippingThreshold = decimal.NewFromInt(50000)
	FlatShippingFee       = decimal.NewFromInt(2500)
)

// shippingFeeFor returns the fee owed for a given subtotal.
func shippingFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}
