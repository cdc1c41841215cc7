package harness

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/basket/internal/cart"
	"github.com/roach88/basket/internal/catalog"
	"github.com/roach88/basket/internal/notify"
	"github.com/roach88/basket/internal/store"
	"github.com/roach88/basket/internal/wishlist"
)

// Result captures everything a scenario can assert on.
type Result struct {
	Cart          cart.State
	Wishlist      wishlist.State
	ItemCount     int
	Subtotal      decimal.Decimal
	ShippingFee   decimal.Decimal
	FinalTotal    decimal.Decimal
	Notifications []notify.Event

	// CartPayload is the persisted cart envelope after the final step,
	// for golden comparison.
	CartPayload []byte
}

// Run executes a scenario against fresh engines over an in-memory store
// and returns the final observable state. Step-level outcome mismatches
// are returned as errors naming the failing step.
func Run(sc *Scenario) (*Result, error) {
	ctx := context.Background()
	mem := store.NewMem()
	rec := notify.NewRecorder()

	cartKey := "basket/cart/" + sc.Name
	wishKey := "basket/wishlist/" + sc.Name

	c, err := cart.New(mem, cart.WithStorageKey(cartKey), cart.WithNotifier(rec))
	if err != nil {
		return nil, fmt.Errorf("create cart engine: %w", err)
	}
	w, err := wishlist.New(mem, wishlist.WithStorageKey(wishKey), wishlist.WithNotifier(rec))
	if err != nil {
		return nil, fmt.Errorf("create wishlist engine: %w", err)
	}

	products := make(map[string]catalog.Product, len(sc.Products))
	for _, def := range sc.Products {
		products[def.ID] = def.toProduct()
	}

	for i, step := range sc.Steps {
		if err := runStep(ctx, c, w, products, step); err != nil {
			return nil, fmt.Errorf("step %d (%s %s): %w", i, step.Op, step.Product, err)
		}
	}

	payload, _, err := mem.Load(ctx, cartKey)
	if err != nil {
		return nil, fmt.Errorf("load final cart payload: %w", err)
	}

	return &Result{
		Cart:          c.Snapshot(),
		Wishlist:      w.Snapshot(),
		ItemCount:     c.TotalItemCount(),
		Subtotal:      c.Subtotal(),
		ShippingFee:   c.ShippingFee(),
		FinalTotal:    c.FinalTotal(),
		Notifications: rec.Events(),
		CartPayload:   payload,
	}, nil
}

func runStep(ctx context.Context, c *cart.Engine, w *wishlist.Engine, products map[string]catalog.Product, step Step) error {
	var err error
	switch step.Op {
	case "cart.add":
		qty := step.Quantity
		if qty == 0 {
			qty = 1
		}
		err = c.AddItem(ctx, products[step.Product], qty)
	case "cart.remove":
		c.RemoveItem(ctx, step.Product)
	case "cart.set":
		err = c.UpdateQuantity(ctx, step.Product, step.Quantity)
	case "cart.clear":
		c.Clear(ctx)
	case "cart.toggle":
		c.TogglePanel(ctx)
	case "wish.add":
		err = w.AddItem(ctx, products[step.Product])
	case "wish.remove":
		w.RemoveItem(ctx, step.Product)
	case "wish.clear":
		w.Clear(ctx)
	}

	return checkOutcome(step.Want, err)
}

func checkOutcome(want string, err error) error {
	switch want {
	case "", "ok":
		if err != nil {
			return fmt.Errorf("expected success, got %w", err)
		}
	case "insufficient_stock":
		if !cart.IsInsufficientStock(err) {
			return fmt.Errorf("expected insufficient stock rejection, got %v", err)
		}
	case "already_exists":
		if !wishlist.IsAlreadyExists(err) {
			return fmt.Errorf("expected already-exists rejection, got %v", err)
		}
	}
	return nil
}

func (d ProductDef) toProduct() catalog.Product {
	p := catalog.Product{
		ID:              d.ID,
		Name:            d.Name,
		Price:           decimal.NewFromInt(d.Price),
		StockQuantity:   d.Stock,
		PromotionActive: d.PromotionActive,
		Images:          d.Images,
	}
	if d.PromotionPrice != nil {
		promo := decimal.NewFromInt(*d.PromotionPrice)
		p.PromotionPrice = &promo
	}
	return p
}
