// Package cart implements the cart engine: the quantity-bearing product
// selection with derived pricing, shipping computation, and the side-panel
// visibility flag.
//
// ARCHITECTURE:
//
// Every public operation is a synchronous read-modify-write guarded by a
// single mutex - operations never interleave on the same engine instance
// and no partially applied mutation is observable. All validation happens
// before any state changes; a rejected mutation leaves state untouched.
//
// Derived values (item count, subtotal, shipping fee, final total) are
// computed on demand from current lines, never cached.
//
// After every successful mutation the engine persists a versioned snapshot
// through its SnapshotStore. Persistence is a best-effort mirror: a failed
// save is logged and the in-memory mutation stands.
//
// Rejections are reported twice, deliberately: as a typed *Error return for
// the calling code and as an InsufficientStock notification for the user-
// facing side-channel. Query operations never fail.
package cart
