// Package wishlist implements the wishlist engine: a de-duplicated,
// insertion-ordered set of saved product snapshots.
//
// Membership is boolean per product - no quantities, no stock checks. The
// engine follows the same pattern as the cart engine: mutex-guarded
// synchronous operations, validate before mutate, persist a versioned
// snapshot after every successful mutation, report outcomes through the
// notification port.
package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/basket/internal/catalog"
	"github.com/roach88/basket/internal/notify"
	"github.com/roach88/basket/internal/store"
)

// DefaultStorageKey is the snapshot key used when no session-scoped key
// is configured.
const DefaultStorageKey = "basket/wishlist/default"

// State is a snapshot of the wishlist, in insertion order.
// INVARIANT: no two products share an id.
type State struct {
	Products []catalog.Product `json:"products"`
}

// Engine owns the wishlist state. One instance per user session.
type Engine struct {
	mu       sync.Mutex
	products []catalog.Product
	index    map[string]int // product id -> position in products

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

// New creates a wishlist engine backed by the given store, restoring
// persisted state when a snapshot exists for the configured key.
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

// AddItem saves the product snapshot. Adding a product whose id is already
// present is rejected with AlreadyExists and leaves state unchanged.
func (e *Engine) AddItem(ctx context.Context, p catalog.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.index[p.ID]; ok {
		e.notifier.Notify(notify.KindAlreadyExists, fmt.Sprintf("%s is already in the wishlist", displayName(p)))
		return newAlreadyExistsError(p.ID)
	}

	e.index[p.ID] = len(e.products)
	e.products = append(e.products, p)
	e.persist(ctx)
	slog.Debug("wishlist entry added", "product_id", p.ID)
	e.notifier.Notify(notify.KindAdded, fmt.Sprintf("%s added to wishlist", displayName(p)))
	return nil
}

// RemoveItem removes the product if present; removing an absent product is
// a benign no-op. Removed is emitted either way.
func (e *Engine) RemoveItem(ctx context.Context, productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i, ok := e.index[productID]; ok {
		e.products = append(e.products[:i], e.products[i+1:]...)
		delete(e.index, productID)
		for j := i; j < len(e.products); j++ {
			e.index[e.products[j].ID] = j
		}
		e.persist(ctx)
		slog.Debug("wishlist entry removed", "product_id", productID)
	}
	e.notifier.Notify(notify.KindRemoved, fmt.Sprintf("%s removed from wishlist", productID))
}

// Contains reports whether a product id is in the wishlist.
func (e *Engine) Contains(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.index[productID]
	return ok
}

// Len returns the number of saved products.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.products)
}

// Clear empties the wishlist and deletes the persisted snapshot.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = nil
	e.index = make(map[string]int)
	if err := e.store.Delete(ctx, e.key); err != nil {
		slog.Error("delete wishlist snapshot failed", "key", e.key, "error", err)
	}
	slog.Debug("wishlist cleared")
	e.notifier.Notify(notify.KindCleared, "wishlist cleared")
}

// Snapshot returns a copy of the current wishlist state for read-only use.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	products := make([]catalog.Product, len(e.products))
	copy(products, e.products)
	return State{Products: products}
}

// persist mirrors the current state to the snapshot store. A failed save
// is logged and never rolled back. Caller holds e.mu.
func (e *Engine) persist(ctx context.Context) {
	payload, err := store.EncodeEnvelope(State{Products: e.products})
	if err != nil {
		slog.Error("encode wishlist snapshot failed", "key", e.key, "error", err)
		return
	}
	if err := e.store.Save(ctx, e.key, payload); err != nil {
		slog.Error("save wishlist snapshot failed", "key", e.key, "error", err)
	}
}

// restore loads persisted state, enforcing the uniqueness invariant.
func (e *Engine) restore(ctx context.Context) error {
	payload, found, err := e.store.Load(ctx, e.key)
	if err != nil {
		return fmt.Errorf("load wishlist snapshot: %w", err)
	}
	if !found {
		return nil
	}

	var st State
	if err := store.DecodeEnvelope(payload, &st); err != nil {
		return fmt.Errorf("decode wishlist snapshot: %w", err)
	}

	index := make(map[string]int, len(st.Products))
	for i, p := range st.Products {
		if p.ID == "" {
			return fmt.Errorf("invalid wishlist snapshot: entry %d has no product id", i)
		}
		if _, dup := index[p.ID]; dup {
			return fmt.Errorf("invalid wishlist snapshot: duplicate entry for product %s", p.ID)
		}
		index[p.ID] = i
	}

	e.products = st.Products
	e.index = index
	slog.Debug("wishlist restored", "key", e.key, "entries", len(st.Products))
	return nil
}

func displayName(p catalog.Product) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
