package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/roach88/basket/internal/catalog"
	"github.com/roach88/basket/internal/notify"
	"github.com/roach88/basket/internal/store"
)

// DefaultStorageKey is the snapshot key used when no session-scoped key
// is configured.
const DefaultStorageKey = "basket/cart/default"

// Line is one product's quantity-bearing entry in the cart.
//
// Product is the snapshot captured at insertion time (overwritten on
// re-add). INVARIANTS: 1 <= Quantity <= Product.StockQuantity; exactly one
// line exists per product id.
type Line struct {
	Product       catalog.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedImage string          `json:"selected_image,omitempty"`
}

// State is a snapshot of the cart, in line insertion order.
// It is what gets persisted and what UI surfaces read.
type State struct {
	Lines       []Line `json:"lines"`
	IsPanelOpen bool   `json:"is_panel_open"`
}

// Engine owns the cart state. One instance per user session; all UI
// surfaces observing the session must share the same instance.
type Engine struct {
	mu        sync.Mutex
	lines     []Line
	index     map[string]int // product id -> position in lines
	panelOpen bool

	store    store.SnapshotStore
	key      string
	notifier notify.Notifier
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithNotifier sets the notification side-channel.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithStorageKey sets the snapshot key, namespacing persisted state per
// session.
func WithStorageKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// New creates a cart engine backed by the given store, restoring persisted
// state when a snapshot exists for the configured key. A missing snapshot
// yields an empty cart; a snapshot that cannot be decoded is an error, and
// the caller decides whether to start over empty.
func New(s store.SnapshotStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		index:    make(map[string]int),
		store:    s,
		key:      DefaultStorageKey,
		notifier: notify.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.restore(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// AddItem adds quantity units of the product to the cart, accumulating
// onto an existing line for the same product id. Quantities below 1 are
// treated as 1.
//
// The stored snapshot for an existing line is overwritten with the given
// product, so the line reflects the freshest record the caller has seen.
// SelectedImage defaults to the product's first image on newly created
// lines and is preserved on existing ones.
//
// Returns a stock rejection error (and emits InsufficientStock) when the
// resulting quantity would exceed the snapshot's stock; state is unchanged.
func (e *Engine) AddItem(ctx context.Context, p catalog.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	candidate := quantity
	if i, ok := e.index[p.ID]; ok {
		candidate = e.lines[i].Quantity + quantity
	}

	if candidate > p.StockQuantity {
		e.notifier.Notify(notify.KindInsufficientStock,
			fmt.Sprintf("insufficient stock for %s: requested %d, available %d", displayName(p), candidate, p.StockQuantity))
		return newInsufficientStockError(p.ID, candidate, p.StockQuantity)
	}

	if i, ok := e.index[p.ID]; ok {
		selected := e.lines[i].SelectedImage
		e.lines[i] = Line{Product: p, Quantity: candidate, SelectedImage: selected}
	} else {
		e.index[p.ID] = len(e.lines)
		e.lines = append(e.lines, Line{Product: p, Quantity: candidate, SelectedImage: p.DefaultImage()})
	}

	e.persist(ctx)
	slog.Debug("cart line upserted", "product_id", p.ID, "quantity", candidate)
	e.notifier.Notify(notify.KindSuccess, fmt.Sprintf("%s added to cart", displayName(p)))
	return nil
}

// RemoveItem removes the line for the product id. Removing an absent line
// is a benign no-op, so repeated remove clicks stay idempotent. Removed is
// emitted either way.
func (e *Engine) RemoveItem(ctx context.Context, productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removeLocked(ctx, productID) {
		slog.Debug("cart line removed", "product_id", productID)
	}
	e.notifier.Notify(notify.KindRemoved, fmt.Sprintf("%s removed from cart", productID))
}

// UpdateQuantity sets the line's quantity to exactly quantity (absolute
// set, not a delta). A quantity at or below zero removes the line. An
// absent line is a no-op. A quantity above the line snapshot's stock is
// rejected with InsufficientStock and state is unchanged.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		e.removeLocked(ctx, productID)
		e.notifier.Notify(notify.KindRemoved, fmt.Sprintf("%s removed from cart", productID))
		return nil
	}

	i, ok := e.index[productID]
	if !ok {
		return nil
	}

	line := e.lines[i]
	if quantity > line.Product.StockQuantity {
		e.notifier.Notify(notify.KindInsufficientStock,
			fmt.Sprintf("insufficient stock for %s: requested %d, available %d", displayName(line.Product), quantity, line.Product.StockQuantity))
		return newInsufficientStockError(productID, quantity, line.Product.StockQuantity)
	}

	e.lines[i].Quantity = quantity
	e.persist(ctx)
	slog.Debug("cart quantity updated", "product_id", productID, "quantity", quantity)
	e.notifier.Notify(notify.KindSuccess, fmt.Sprintf("quantity updated for %s", displayName(line.Product)))
	return nil
}

// SelectImage sets the line's selected image reference. No-op when the
// line is absent or the reference is not one of the snapshot's images.
func (e *Engine) SelectImage(ctx context.Context, productID, ref string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.index[productID]
	if !ok || !e.lines[i].Product.HasImage(ref) {
		return
	}
	e.lines[i].SelectedImage = ref
	e.persist(ctx)
}

// Clear removes all lines and emits Cleared. The panel flag is untouched:
// only TogglePanel changes it.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	e.index = make(map[string]int)
	e.persist(ctx)
	slog.Debug("cart cleared")
	e.notifier.Notify(notify.KindCleared, "cart cleared")
}

// TogglePanel flips the side-panel visibility flag and returns the new
// value.
func (e *Engine) TogglePanel(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.panelOpen = !e.panelOpen
	e.persist(ctx)
	return e.panelOpen
}

// IsPanelOpen reports the side-panel visibility flag.
func (e *Engine) IsPanelOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.panelOpen
}

// TotalItemCount returns the sum of all line quantities.
func (e *Engine) TotalItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal returns the sum over lines of effective unit price times
// quantity. Promotional prices apply per catalog.Product.UnitPrice.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked()
}

// ShippingFee returns the shipping owed for the current subtotal.
func (e *Engine) ShippingFee() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return shippingFeeFor(e.subtotalLocked())
}

// FinalTotal returns subtotal plus shipping.
func (e *Engine) FinalTotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	subtotal := e.subtotalLocked()
	return subtotal.Add(shippingFeeFor(subtotal))
}

// Snapshot returns a copy of the current cart state for read-only use.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := make([]Line, len(e.lines))
	copy(lines, e.lines)
	return State{Lines: lines, IsPanelOpen: e.panelOpen}
}

func (e *Engine) subtotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.lines {
		total = total.Add(line.Product.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// removeLocked removes the line for productID, persisting when a line was
// actually removed. Returns whether state changed. Caller holds e.mu.
func (e *Engine) removeLocked(ctx context.Context, productID string) bool {
	i, ok := e.index[productID]
	if !ok {
		return false
	}

	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	delete(e.index, productID)
	for j := i; j < len(e.lines); j++ {
		e.index[e.lines[j].Product.ID] = j
	}

	e.persist(ctx)
	return true
}

// persist mirrors the current state to the snapshot store. In-memory state
// is the source of truth; a failed save is logged and never rolled back.
// Caller holds e.mu.
func (e *Engine) persist(ctx context.Context) {
	payload, err := store.EncodeEnvelope(State{Lines: e.lines, IsPanelOpen: e.panelOpen})
	if err != nil {
		slog.Error("encode cart snapshot failed", "key", e.key, "error", err)
		return
	}
	if err := e.store.Save(ctx, e.key, payload); err != nil {
		slog.Error("save cart snapshot failed", "key", e.key, "error", err)
	}
}

// restore loads persisted state, validating the invariants a well-formed
// snapshot must satisfy.
func (e *Engine) restore(ctx context.Context) error {
	payload, found, err := e.store.Load(ctx, e.key)
	if err != nil {
		return fmt.Errorf("load cart snapshot: %w", err)
	}
	if !found {
		return nil
	}

	var st State
	if err := store.DecodeEnvelope(payload, &st); err != nil {
		return fmt.Errorf("decode cart snapshot: %w", err)
	}

	index := make(map[string]int, len(st.Lines))
	for i, line := range st.Lines {
		if line.Product.ID == "" {
			return fmt.Errorf("invalid cart snapshot: line %d has no product id", i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("invalid cart snapshot: product %s has quantity %d", line.Product.ID, line.Quantity)
		}
		if _, dup := index[line.Product.ID]; dup {
			return fmt.Errorf("invalid cart snapshot: duplicate line for product %s", line.Product.ID)
		}
		index[line.Product.ID] = i
	}

	e.lines = st.Lines
	e.index = index
	e.panelOpen = st.IsPanelOpen
	slog.Debug("cart restored", "key", e.key, "lines", len(st.Lines))
	return nil
}

func displayName(p catalog.Product) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
