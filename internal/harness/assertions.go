package harness

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Check evaluates the expectations against a scenario result.
// Returns an error naming the first failed assertion.
func (e Expect) Check(r *Result) error {
	if e.ItemCount != nil && r.ItemCount != *e.ItemCount {
		return fmt.Errorf("item count: got %d, want %d", r.ItemCount, *e.ItemCount)
	}
	if e.LineCount != nil && len(r.Cart.Lines) != *e.LineCount {
		return fmt.Errorf("line count: got %d, want %d", len(r.Cart.Lines), *e.LineCount)
	}
	if err := checkAmount("subtotal", r.Subtotal, e.Subtotal); err != nil {
		return err
	}
	if err := checkAmount("shipping fee", r.ShippingFee, e.ShippingFee); err != nil {
		return err
	}
	if err := checkAmount("final total", r.FinalTotal, e.FinalTotal); err != nil {
		return err
	}
	if e.WishlistSize != nil && len(r.Wishlist.Products) != *e.WishlistSize {
		return fmt.Errorf("wishlist size: got %d, want %d", len(r.Wishlist.Products), *e.WishlistSize)
	}
	if e.PanelOpen != nil && r.Cart.IsPanelOpen != *e.PanelOpen {
		return fmt.Errorf("panel open: got %v, want %v", r.Cart.IsPanelOpen, *e.PanelOpen)
	}

	if e.Notifications != nil {
		if len(r.Notifications) != len(e.Notifications) {
			return fmt.Errorf("notifications: got %d events, want %d", len(r.Notifications), len(e.Notifications))
		}
		for i, want := range e.Notifications {
			if string(r.Notifications[i].Kind) != want {
				return fmt.Errorf("notification %d: got %q, want %q", i, r.Notifications[i].Kind, want)
			}
		}
	}

	return nil
}

func checkAmount(name string, got decimal.Decimal, want *int64) error {
	if want == nil {
		return nil
	}
	if !got.Equal(decimal.NewFromInt(*want)) {
		return fmt.Errorf("%s: got %s, want %d", name, got, *want)
	}
	return nil
}
