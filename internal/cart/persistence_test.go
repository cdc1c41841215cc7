package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/basket/internal/store"
	"github.com/roach88/basket/internal/testutil"
)

// failStore always fails writes. Load and Delete behave normally.
type failStore struct {
	*store.Mem
}

func (f *failStore) Save(ctx context.Context, key string, payload []byte) error {
	return errors.New("disk full")
}

func TestPersistence_RestoreAcrossRestart(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMem()

	e1, err := New(mem)
	require.NoError(t, err)
	require.NoError(t, e1.AddItem(ctx, testutil.PromoProduct("tea-pot", 10000, 7000, 5), 3))
	require.NoError(t, e1.AddItem(ctx, testutil.ProductWithImages("mug", 3000, 10, "mug.jpg"), 2))
	e1.TogglePanel(ctx)

	// A fresh engine over the same store must observe identical state.
	e2, err := New(mem)
	require.NoError(t, err)

	assert.Equal(t, e1.TotalItemCount(), e2.TotalItemCount())
	assert.Equal(t, e1.Subtotal().String(), e2.Subtotal().String())
	assert.Equal(t, e1.FinalTotal().String(), e2.FinalTotal().String())
	assert.Equal(t, e1.IsPanelOpen(), e2.IsPanelOpen())

	s1, s2 := e1.Snapshot(), e2.Snapshot()
	require.Len(t, s2.Lines, len(s1.Lines))
	for i := range s1.Lines {
		assert.Equal(t, s1.Lines[i].Product.ID, s2.Lines[i].Product.ID)
		assert.Equal(t, s1.Lines[i].Quantity, s2.Lines[i].Quantity)
		assert.Equal(t, s1.Lines[i].SelectedImage, s2.Lines[i].SelectedImage)
	}
}

func TestPersistence_RoundTripBytesStable(t *testing.T) {
	// Encoding the restored state must reproduce the stored payload:
	// deserialize(serialize(state)) == state.
	ctx := context.Background()
	mem := store.NewMem()

	e1, err := New(mem)
	require.NoError(t, err)
	require.NoError(t, e1.AddItem(ctx, testutil.PromoProduct("tea-pot", 10000, 7000, 5), 3))

	payload1, found, err := mem.Load(ctx, DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, found)

	e2, err := New(mem)
	require.NoError(t, err)
	st := e2.Snapshot()
	payload2, err := store.EncodeEnvelope(st)
	require.NoError(t, err)

	assert.JSONEq(t, string(payload1), string(payload2))
}

func TestPersistence_SessionKeysIsolate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMem()

	a, err := New(mem, WithStorageKey("basket/cart/alpha"))
	require.NoError(t, err)
	require.NoError(t, a.AddItem(ctx, testutil.Product("tea-pot", 10000, 5), 1))

	b, err := New(mem, WithStorageKey("basket/cart/beta"))
	require.NoError(t, err)
	assert.Equal(t, 0, b.TotalItemCount(), "sessions must not share state")
}

func TestPersistence_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	fs := &failStore{Mem: store.NewMem()}

	e, err := New(fs)
	require.NoError(t, err)

	require.NoError(t, e.AddItem(ctx, testutil.Product("tea-pot", 10000, 5), 2))
	assert.Equal(t, 2, e.TotalItemCount(), "in-memory state is the source of truth")
}

func TestNew_CorruptSnapshotRejected(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMem()
	require.NoError(t, mem.Save(ctx, DefaultStorageKey, []byte("{not json")))

	_, err := New(mem)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cart snapshot")
}

func TestNew_DuplicateLineSnapshotRejected(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMem()

	payload, err := store.EncodeEnvelope(State{Lines: []Line{
		{Product: testutil.Product("tea-pot", 10000, 5), Quantity: 1},
		{Product: testutil.Product("tea-pot", 10000, 5), Quantity: 2},
	}})
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, DefaultStorageKey, payload))

	_, err = New(mem)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate line")
}

func TestNew_ZeroQuantitySnapshotRejected(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMem()

	payload, err := store.EncodeEnvelope(State{Lines: []Line{
		{Product: testutil.Product("tea-pot", 10000, 5), Quantity: 0},
	}})
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, DefaultStorageKey, payload))

	_, err = New(mem)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}

func TestNew_LegacyBareStateMigrates(t *testing.T) {
	// Version 0 payloads predate the envelope: the payload is the state.
	ctx := context.Background()
	mem := store.NewMem()

	legacy := []byte(`{"lines":[{"product":{"id":"tea-pot","name":"Tea Pot","price":"10000","stock_quantity":5},"quantity":2}],"is_panel_open":true}`)
	require.NoError(t, mem.Save(ctx, DefaultStorageKey, legacy))

	e, err := New(mem)
	require.NoError(t, err)
	assert.Equal(t, 2, e.TotalItemCount())
	assert.True(t, e.IsPanelOpen())
}

func TestNew_FutureVersionRejected(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMem()
	require.NoError(t, mem.Save(ctx, DefaultStorageKey, []byte(`{"schema_version":99,"state":{}}`)))

	_, err := New(mem)
	require.Error(t, err)

	var ve *store.VersionError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 99, ve.Found)
}
