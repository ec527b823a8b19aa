package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/pkg/database"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/storage"
	"github.com/retailku/order-admin/pkg/testutil"
)

func TestStore_Integration(t *testing.T) {
	testutil.SkipIfShort(t)

	ctx := testutil.DefaultTestContext(t)
	container, err := testutil.NewPostgresContainer(ctx, testutil.DefaultPostgresConfig())
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	db, err := database.NewWithDSN(container.DSN, logger.Nop())
	require.NoError(t, err)

	store := New(db)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.EnsureSchema(ctx))

	orders := testutil.OrderFixtures(3, "u1")
	records := make([]storage.Record, 0, len(orders))
	for _, o := range orders {
		records = append(records, storage.Record{ID: o.ID, Fields: o.Fields()})
	}
	require.NoError(t, store.PutAll(ctx, testutil.OrdersCollection, records))

	listed, err := store.ListAll(ctx, testutil.OrdersCollection)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, int64(150000), listed[0].Fields["totalPrice"])

	require.NoError(t, store.UpdatePartial(ctx, testutil.OrdersCollection, "o2", map[string]any{"status": "Telah sampai"}))
	require.NoError(t, store.DeleteByID(ctx, testutil.OrdersCollection, "o3"))
	assert.ErrorIs(t, store.DeleteByID(ctx, testutil.OrdersCollection, "o3"), storage.ErrNotFound)

	listed, err = store.ListAll(ctx, testutil.OrdersCollection)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	byID := map[string]storage.Record{}
	for _, r := range listed {
		byID[r.ID] = r
	}
	assert.Equal(t, "Telah sampai", byID["o2"].Fields["status"])
	assert.Equal(t, "Transfer Bank", byID["o2"].Fields["paymentMethod"], "merge keeps other fields")
	assert.Equal(t, "up", store.Health(ctx)["status"])
}
