package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YamesYamerson/secure-multimedia-storage/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "mediastore",
	Short:   "Secure multimedia storage broker",
	Long: `mediastore validates file uploads, issues time-limited capability URLs
for an S3-compatible object store and keeps per-owner file metadata.
File bytes never pass through this server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path(s), merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (env: MEDIASTORE_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (env: MEDIASTORE_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: MEDIASTORE_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json (env: MEDIASTORE_LOG_FORMAT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
