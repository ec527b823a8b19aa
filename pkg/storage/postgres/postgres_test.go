package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/database"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/storage"
	"github.com/retailku/order-admin/pkg/testutil"
)

func newStore(t *testing.T) (*Store, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })
	return New(database.NewFromSQLX(mockDB.DB, logger.Nop())), mockDB
}

func TestStore_ListAll(t *testing.T) {
	store, mockDB := newStore(t)

	rows := testutil.MockRows("id", "data").
		AddRow("o1", []byte(`{"status":"Sedang di proses","totalPrice":1500000,"createdAt":{"seconds":1760499000,"nanoseconds":0}}`)).
		AddRow("o2", []byte(`{"status":"Telah sampai","totalPrice":99.5}`))

	mockDB.ExpectQuery("SELECT id, data").
		WithArgs("orders").
		WillReturnRows(rows)

	records, err := store.ListAll(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "o1", records[0].ID)
	assert.Equal(t, int64(1500000), records[0].Fields["totalPrice"])
	assert.Equal(t, int64(1760499000), records[0].Fields["createdAt"].(map[string]any)["seconds"])
	assert.Equal(t, 99.5, records[1].Fields["totalPrice"])

	mockDB.ExpectationsWereMet(t)
}

func TestStore_ListAll_QueryError(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectQuery("SELECT id, data").
		WithArgs("orders").
		WillReturnError(&pq.Error{Code: "08006"})

	_, err := store.ListAll(context.Background(), "orders")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrStore))

	mockDB.ExpectationsWereMet(t)
}

func TestStore_UpdatePartial(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectExec("SET data = data || $3::jsonb").
		WithArgs("orders", "o1", []byte(`{"status":"Telah sampai"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdatePartial(context.Background(), "orders", "o1", map[string]any{"status": "Telah sampai"})
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestStore_UpdatePartial_NotFound(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectExec("UPDATE documents").
		WithArgs("orders", "missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdatePartial(context.Background(), "orders", "missing", map[string]any{"status": "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestStore_DeleteByID(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectExec("DELETE FROM documents WHERE collection = $1 AND id = $2").
		WithArgs("orders", "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("DELETE FROM documents WHERE collection = $1 AND id = $2").
		WithArgs("orders", "o1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteByID(context.Background(), "orders", "o1"))
	assert.ErrorIs(t, store.DeleteByID(context.Background(), "orders", "o1"), storage.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestStore_DeleteByID_DriverError(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectExec("DELETE FROM documents").
		WithArgs("orders", "o1").
		WillReturnError(sql.ErrConnDone)

	err := store.DeleteByID(context.Background(), "orders", "o1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestStore_PutAll(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("INSERT INTO documents").
		WithArgs("user-info", "u1", []byte(`{"kota":"Bandung"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("INSERT INTO documents").
		WithArgs("user-info", "u2", []byte(`{"kota":"Medan"}`)).
		WillReturnError(&pq.Error{Code: "22P02"})
	mockDB.ExpectRollback()

	err := store.PutAll(context.Background(), "user-info", []storage.Record{
		{ID: "u1", Fields: map[string]any{"kota": "Bandung"}},
		{ID: "u2", Fields: map[string]any{"kota": "Medan"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	mockDB.ExpectationsWereMet(t)
}

func TestStore_PutAll_Commits(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("INSERT INTO documents").
		WithArgs("orders", "o1", []byte(`{"status":"Sedang di proses"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := store.PutAll(context.Background(), "orders", []storage.Record{
		{ID: "o1", Fields: map[string]any{"status": "Sedang di proses"}},
	})
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestStore_SeedViaFixture(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectExec("INSERT INTO documents").
		WithArgs("orders", "o1", []byte(`{"status":"Telah sampai"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := storage.SeedJSON(context.Background(), []byte(`{"orders":[{"id":"o1","status":"Telah sampai"}]}`), store)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	mockDB.ExpectationsWereMet(t)
}

func TestStore_EnsureSchema(t *testing.T) {
	store, mockDB := newStore(t)

	mockDB.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	mockDB.ExpectationsWereMet(t)
}
