package main

import (
	"context"
	"fmt"
	"log/slog"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/config"
	"github.com/YamesYamerson/secure-multimedia-storage/database"
	"github.com/YamesYamerson/secure-multimedia-storage/presign"
)

// openDatabase connects to the metadata store and checks its schema,
// migrating first when migrate is set.
func openDatabase(ctx context.Context, cfg *config.Config, migrate bool) (database.Database, error) {
	db, err := database.Open(ctx, cfg.Database, migrate)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	slog.Info("connected to database", "type", cfg.Database.Type, "table", cfg.Database.Tables.Files)
	return db, nil
}

// newBroker wires the broker to db and the configured object store.
func newBroker(ctx context.Context, cfg *config.Config, db database.Database) (*mediastore.UploadBroker, error) {
	issuer, err := presign.New(ctx, cfg.ObjectStore)
	if err != nil {
		return nil, fmt.Errorf("create url issuer: %w", err)
	}

	staleAfter := cfg.ObjectStore.URLTTL
	if staleAfter <= 0 {
		staleAfter = presign.DefaultURLTTL
	}

	broker, err := mediastore.NewUploadBroker(db.GetRepo(), issuer, mediastore.BrokerConfig{
		StaleAfter: staleAfter,
	})
	if err != nil {
		return nil, fmt.Errorf("create broker: %w", err)
	}
	return broker, nil
}
