package store

import "context"

// SnapshotStore is the abstract save/load boundary to durable storage.
//
// Keys are opaque namespaced strings (e.g. "basket/cart/<session>").
// Payloads are opaque to the store; engines own the serialization format.
type SnapshotStore interface {
	// Save writes the payload under key, replacing any previous payload.
	Save(ctx context.Context, key string, payload []byte) error

	// Load returns the payload stored under key. found is false when the
	// key has never been written (or was deleted); that is not an error.
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)

	// Delete removes the payload stored under key. Deleting an absent key
	// is a no-op.
	Delete(ctx context.Context, key string) error
}
