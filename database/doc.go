// Package database connects to a metadata backend for FileRecords.
//
// # Supported Backends
//
//   - PostgreSQL: production backend using a pgx connection pool
//   - SQLite: single-node and development backend using modernc.org/sqlite
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "mediastore.db",
//	    Tables: mediastore.Tables{Files: "media_files"},
//	}
//
//	db, err := database.Open(ctx, cfg, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	store := db.GetRepo()
//
// Connect only opens the connection. Open additionally pings, optionally runs
// migrations, and validates the schema.
package database
