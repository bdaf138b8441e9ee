package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database/postgres"
)

func tableExists(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string) bool {
	t.Helper()

	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	require.NoError(t, err, "failed to check table existence for %s", name)
	return exists
}

func TestMigrate(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container tests skipped in short mode")
	}

	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	t.Run("creates table, indexes and constraints", func(t *testing.T) {
		tables := randomTables(t)
		require.NoError(t, postgres.Migrate(ctx, pool, tables))
		defer func() { _ = dropTable(ctx, pool, tables.Files) }()

		assert.True(t, tableExists(t, ctx, pool, tables.Files))

		for _, idx := range []string{
			fmt.Sprintf("idx_%s_owner_list", tables.Files),
			fmt.Sprintf("idx_%s_stale_uploads", tables.Files),
		} {
			var exists bool
			err := pool.QueryRow(ctx, `
				SELECT EXISTS (SELECT FROM pg_indexes WHERE tablename = $1 AND indexname = $2)
			`, tables.Files, idx).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "expected index %s", idx)
		}

		for _, constraint := range []string{"PRIMARY KEY", "UNIQUE", "CHECK"} {
			var exists bool
			err := pool.QueryRow(ctx, `
				SELECT EXISTS (
					SELECT FROM information_schema.table_constraints
					WHERE table_name = $1 AND constraint_type = $2
				)
			`, tables.Files, constraint).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "expected %s constraint", constraint)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		tables := randomTables(t)
		require.NoError(t, postgres.Migrate(ctx, pool, tables))
		defer func() { _ = dropTable(ctx, pool, tables.Files) }()

		_, err := pool.Exec(ctx, `
			INSERT INTO `+tables.Files+` (file_id, owner_id, declared_name, category, declared_size,
				declared_content_type, object_key, title, status, created_at, last_modified)
			VALUES ('f', 'o', 'n', 'other', 1, 't', 'k', 'n', 'deleted', NOW(), NOW())
		`)
		assert.Error(t, err)
	})

	t.Run("round trip - migrate, drop, migrate again", func(t *testing.T) {
		tables := randomTables(t)
		defer func() { _ = dropTable(ctx, pool, tables.Files) }()

		require.NoError(t, postgres.Migrate(ctx, pool, tables))
		assert.True(t, tableExists(t, ctx, pool, tables.Files))

		require.NoError(t, postgres.DropTables(ctx, pool, tables))
		assert.False(t, tableExists(t, ctx, pool, tables.Files))
		require.NoError(t, postgres.DropTables(ctx, pool, tables), "drop should be idempotent")

		require.NoError(t, postgres.Migrate(ctx, pool, tables))
		assert.True(t, tableExists(t, ctx, pool, tables.Files))
	})

	t.Run("rejects invalid table names", func(t *testing.T) {
		err := postgres.Migrate(ctx, pool, mediastore.Tables{Files: "files; DROP TABLE x"})
		assert.Error(t, err)
	})
}
