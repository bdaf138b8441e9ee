package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database/internal"
)

// filesColumns is the layout Migrate creates, as information_schema names
// the types.
var filesColumns = []internal.Column{
	{Name: "file_id", Type: "text"},
	{Name: "owner_id", Type: "text"},
	{Name: "declared_name", Type: "text"},
	{Name: "category", Type: "text"},
	{Name: "declared_size", Type: "bigint"},
	{Name: "declared_content_type", Type: "text"},
	{Name: "object_key", Type: "text"},
	{Name: "title", Type: "text"},
	{Name: "description", Type: "text"},
	{Name: "tags", Type: "array"},
	{Name: "status", Type: "text"},
	{Name: "created_at", Type: "timestamp with time zone"},
	{Name: "last_modified", Type: "timestamp with time zone"},
	{Name: "version", Type: "integer"},
}

// ValidateSchema checks that the files table exists in the current schema
// with the columns the repository reads and writes.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables mediastore.Tables) error {
	table := tables.Files
	if !mediastore.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	have, err := tableColumns(ctx, pool, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}
	if len(have) == 0 {
		return fmt.Errorf("validate schema: table %s does not exist", table)
	}

	if err := internal.CheckColumns(table, filesColumns, have); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	return nil
}

func tableColumns(ctx context.Context, pool *pgxpool.Pool, table string) ([]internal.Column, error) {
	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.Column, error) {
		var c internal.Column
		err := row.Scan(&c.Name, &c.Type, &c.Nullable)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return columns, nil
}
