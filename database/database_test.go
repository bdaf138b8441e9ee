package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database"
)

func newTestConfig(tableName string) database.Config {
	return database.Config{
		Type:   "sqlite",
		DSN:    ":memory:",
		Tables: mediastore.Tables{Files: tableName},
	}
}

func TestConnect_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := database.Connect(ctx, newTestConfig("files"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NoError(t, db.Ping(ctx))
}

func TestConnect_InvalidType(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{"", "mysql"} {
		cfg := newTestConfig("files")
		cfg.Type = typ

		_, err := database.Connect(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database type")
	}
}

func TestConnect_InvalidTable(t *testing.T) {
	t.Parallel()

	_, err := database.Connect(context.Background(), newTestConfig("files; drop"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid files table name")
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("with migration", func(t *testing.T) {
		db, err := database.Open(ctx, newTestConfig("open_migrate"), true)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		res, err := db.GetRepo().List(ctx, "user-1", mediastore.ListQuery{Limit: 1})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
	})

	t.Run("without migration fails validation", func(t *testing.T) {
		_, err := database.Open(ctx, newTestConfig("open_nomigrate"), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validate sqlite schema")
	})
}

func TestDatabase_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := database.Connect(ctx, newTestConfig("close_test"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx), "ping should fail after close")
}
