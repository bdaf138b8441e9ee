package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, pool *pgxpool.Pool) error
	Down      func(ctx context.Context, pool *pgxpool.Pool) error
}

func getTableMigrations(tables mediastore.Tables) []TableMigration {
	migrations := []TableMigration{}

	migrations = append(migrations, TableMigration{
		TableName: tables.Files,
		Up:        createFilesTable(tables.Files),
		Down:      dropTable(tables.Files),
	})

	return migrations
}

// Migrate creates every table the store needs. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables mediastore.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, migration := range getTableMigrations(tables) {
		if err := migration.Up(ctx, pool); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

// DropTables removes every table in reverse migration order.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables mediastore.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}

	migrations := getTableMigrations(tables)
	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, pool); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createFilesTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		quotedTable := pgx.Identifier{tableName}.Sanitize()
		indexOwnerList := pgx.Identifier{fmt.Sprintf("idx_%s_owner_list", tableName)}.Sanitize()
		indexStale := pgx.Identifier{fmt.Sprintf("idx_%s_stale_uploads", tableName)}.Sanitize()

		sql := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				file_id TEXT NOT NULL,
				owner_id TEXT NOT NULL,
				declared_name TEXT NOT NULL,
				category TEXT NOT NULL,
				declared_size BIGINT NOT NULL,
				declared_content_type TEXT NOT NULL,
				object_key TEXT NOT NULL UNIQUE,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				tags TEXT[] NOT NULL DEFAULT '{}',
				status TEXT NOT NULL CHECK (status IN ('uploading', 'completed')),
				created_at TIMESTAMPTZ NOT NULL,
				last_modified TIMESTAMPTZ NOT NULL,
				version INTEGER NOT NULL DEFAULT 1,
				PRIMARY KEY (owner_id, file_id)
			);

			CREATE INDEX IF NOT EXISTS %s
			ON %s (owner_id, created_at, file_id);

			CREATE INDEX IF NOT EXISTS %s
			ON %s (created_at, file_id)
			WHERE (status = 'uploading');
		`,
			quotedTable,
			indexOwnerList, quotedTable,
			indexStale, quotedTable,
		)

		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("create files table: %w", err)
		}
		return nil
	}
}

func dropTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{tableName}.Sanitize())
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
		return nil
	}
}
