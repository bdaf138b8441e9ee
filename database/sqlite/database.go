package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"

	_ "modernc.org/sqlite" // SQLite driver
)

// database provides SQLite database operations.
type database struct {
	db     *sql.DB
	tables mediastore.Tables
}

// Connect opens a SQLite database.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables mediastore.Tables) (*database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite has a single writer, and ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	return &database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *database) Migrate(ctx context.Context) error {
	return Migrate(ctx, d.db, d.tables)
}

// Validate checks that the database schema matches expected structure.
func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

// GetRepo returns the MetadataStore backed by this connection.
func (d *database) GetRepo() mediastore.MetadataStore {
	return &Repo{db: d.db, tableName: quoteIdentifier(d.tables.Files)}
}

// Close closes the database connection.
func (d *database) Close() error {
	return d.db.Close()
}
