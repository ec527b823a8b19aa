package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/pkg/config"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/storage/memory"
)

func TestOpenStore_MemoryWithFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"orders": [{"id": "o1", "status": "Sedang di proses", "userId": "u1"}],
		"user-info": [{"id": "u1", "kota": "Bandung"}]
	}`), 0o600))

	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory, FixturePath: path}}
	gw, err := openStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer gw.Close()

	store, ok := gw.(*memory.Store)
	require.True(t, ok)
	assert.Equal(t, 1, store.Len("orders"))
	assert.Equal(t, 1, store.Len("user-info"))
}

func TestOpenStore_MissingFixture(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory, FixturePath: "/does/not/exist.json"}}
	_, err := openStore(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "cassandra"}}
	_, err := openStore(context.Background(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "cassandra")
}
