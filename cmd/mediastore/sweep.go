package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/config"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Report uploads that were never confirmed",
	Long: `List records of every owner still in the uploading state after their
write URL has expired. Nothing is modified: records are never deleted, and
the objects they point to may or may not exist in the object store.

By default a record is stale once it is older than object_store.url_ttl.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().Duration("older-than", 0, "report uploads created more than this long ago (default: object_store.url_ttl)")
	sweepCmd.Flags().Int("limit", 100, "page size")
	sweepCmd.Flags().Bool("all", false, "follow pagination to the end")
	sweepCmd.Flags().Bool("json", false, "print records as JSON lines on stdout")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Sweep never changes the schema, even with auto_migrate set.
	db, err := openDatabase(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	broker, err := newBroker(ctx, cfg, db)
	if err != nil {
		return err
	}

	q := mediastore.StaleQuery{Limit: limit}
	if olderThan > 0 {
		q.Before = time.Now().UTC().Add(-olderThan)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	total := 0
	for {
		page, err := broker.StaleUploads(ctx, q)
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}

		for _, rec := range page.Items {
			if jsonOutput {
				if err := enc.Encode(rec); err != nil {
					return fmt.Errorf("sweep: encode: %w", err)
				}
				continue
			}
			slog.Info("stale upload",
				"owner_id", rec.OwnerID,
				"file_id", rec.FileID,
				"object_key", rec.ObjectKey,
				"created_at", rec.CreatedAt,
			)
		}
		total += len(page.Items)

		if !all || page.NextCursor == "" {
			break
		}
		q.Cursor = page.NextCursor
	}

	slog.Info("sweep complete", "stale_uploads", total)
	return nil
}
