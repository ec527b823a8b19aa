package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/pkg/storage"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()
	for _, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, s.Put(ctx, "orders", id, map[string]any{"status": "Sedang di proses", "totalQuantity": 1}))
	}
	return s
}

func TestStore_ListAllKeepsInsertionOrder(t *testing.T) {
	s := seeded(t)

	records, err := s.ListAll(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "o1", records[0].ID)
	assert.Equal(t, "o3", records[2].ID)
	assert.Equal(t, int64(1), records[0].Fields["totalQuantity"])
}

func TestStore_ListAllUnknownCollection(t *testing.T) {
	records, err := New().ListAll(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_ListAllReturnsCopies(t *testing.T) {
	s := seeded(t)

	records, err := s.ListAll(context.Background(), "orders")
	require.NoError(t, err)
	records[0].Fields["status"] = "mutated"

	doc, ok := s.Get("orders", "o1")
	require.True(t, ok)
	assert.Equal(t, "Sedang di proses", doc["status"])
}

func TestStore_UpdatePartial(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.UpdatePartial(ctx, "orders", "o2", map[string]any{"status": "Telah sampai"}))

	doc, _ := s.Get("orders", "o2")
	assert.Equal(t, "Telah sampai", doc["status"])
	assert.Equal(t, int64(1), doc["totalQuantity"], "untouched fields survive a partial update")

	assert.ErrorIs(t, s.UpdatePartial(ctx, "orders", "missing", map[string]any{"status": "x"}), storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdatePartial(ctx, "nope", "o1", map[string]any{"status": "x"}), storage.ErrNotFound)
}

func TestStore_DeleteByID(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteByID(ctx, "orders", "o2"))
	assert.Equal(t, 2, s.Len("orders"))

	records, _ := s.ListAll(ctx, "orders")
	assert.Equal(t, []string{"o1", "o3"}, []string{records[0].ID, records[1].ID})

	assert.ErrorIs(t, s.DeleteByID(ctx, "orders", "o2"), storage.ErrNotFound)
}

func TestStore_PutReplaceKeepsPosition(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "orders", "o1", map[string]any{"status": "Telah sampai"}))

	records, _ := s.ListAll(ctx, "orders")
	assert.Equal(t, "o1", records[0].ID)
	assert.Equal(t, "Telah sampai", records[0].Fields["status"])
	assert.Error(t, s.Put(ctx, "orders", "", nil))
}

func TestStore_CancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListAll(ctx, "orders")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_SeedFromJSON(t *testing.T) {
	s := New()
	n, err := storage.SeedJSON(context.Background(), []byte(`{"user-info": [{"id": "u1", "kota": "Bandung"}]}`), s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc, ok := s.Get("user-info", "u1")
	require.True(t, ok)
	assert.Equal(t, "Bandung", doc["kota"])
	assert.Equal(t, "up", s.Health(context.Background())["status"])
}
