package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/YamesYamerson/secure-multimedia-storage/config"
	"github.com/YamesYamerson/secure-multimedia-storage/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or verify the metadata tables",
	Long: `Create the metadata table and its indexes if they do not exist, then
verify the schema. With --check only the verification runs.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("check", false, "only validate the existing schema")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	checkOnly, _ := cmd.Flags().GetBool("check")

	db, err := database.Open(cmd.Context(), cfg.Database, !checkOnly)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = db.Close() }()

	if checkOnly {
		slog.Info("schema is valid", "type", cfg.Database.Type, "table", cfg.Database.Tables.Files)
	} else {
		slog.Info("database migration complete", "type", cfg.Database.Type, "table", cfg.Database.Tables.Files)
	}
	return nil
}
