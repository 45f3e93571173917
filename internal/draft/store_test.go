package draft

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelhazem/storefront/internal/checkout"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := checkout.Snapshot{
		UserID: "u1",
		State:  checkout.StatePayment,
		Shipping: &checkout.ShippingInfo{
			FullName: "Jane Doe", Email: "a@b.com", Phone: "0123456789",
			Address: "12 Nile St", City: "Cairo", PostalCode: "12345",
		},
		OrderID:   "o1",
		PaymentID: "p1",
	}
	require.NoError(t, store.Save(ctx, snap))

	got, ok, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, checkout.StatePayment, got.State)
	assert.Equal(t, "o1", got.OrderID)
	require.NotNil(t, got.Shipping)
	assert.Equal(t, "Cairo", got.Shipping.City)
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.Snapshot{UserID: "u1", State: checkout.StateCart}))
	require.NoError(t, store.Save(ctx, checkout.Snapshot{UserID: "u1", State: checkout.StateShipping}))

	got, ok, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, checkout.StateShipping, got.State)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.Snapshot{UserID: "u1", State: checkout.StateCart}))
	require.NoError(t, store.Delete(ctx, "u1"))

	_, ok, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
