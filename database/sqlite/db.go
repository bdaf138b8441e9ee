package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database/internal"
)

// filesColumns is the layout Migrate creates, in PRAGMA table_info terms.
var filesColumns = []internal.Column{
	{Name: "file_id", Type: "text"},
	{Name: "owner_id", Type: "text"},
	{Name: "declared_name", Type: "text"},
	{Name: "category", Type: "text"},
	{Name: "declared_size", Type: "integer"},
	{Name: "declared_content_type", Type: "text"},
	{Name: "object_key", Type: "text"},
	{Name: "title", Type: "text"},
	{Name: "description", Type: "text"},
	{Name: "tags", Type: "text"},
	{Name: "status", Type: "text"},
	{Name: "created_at", Type: "text"},
	{Name: "last_modified", Type: "text"},
	{Name: "version", Type: "integer"},
}

// ValidateSchema checks that the files table exists with the columns the
// repository reads and writes.
func ValidateSchema(ctx context.Context, db *sql.DB, tables mediastore.Tables) error {
	table := tables.Files
	if !mediastore.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	have, err := tableColumns(ctx, db, table)
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

// tableColumns reads PRAGMA table_info, which yields no rows for a table
// that does not exist.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]internal.Column, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(`+quoteIdentifier(table)+`)`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []internal.Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, internal.Column{Name: name, Type: colType, Nullable: notNull == 0})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return columns, nil
}
