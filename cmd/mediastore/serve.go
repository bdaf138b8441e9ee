package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/config"
	mediahttp "github.com/YamesYamerson/secure-multimedia-storage/http"
	"github.com/YamesYamerson/secure-multimedia-storage/identity"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the broker HTTP server on server.port.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port (default: 8080, env: MEDIASTORE_SERVER_PORT)")
	serveCmd.Flags().String("bucket", "", "object store bucket (env: MEDIASTORE_OBJECT_STORE_BUCKET)")
	serveCmd.Flags().String("endpoint", "", "object store endpoint (env: MEDIASTORE_OBJECT_STORE_ENDPOINT)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg, cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	broker, err := newBroker(ctx, cfg, db)
	if err != nil {
		return err
	}

	provider, err := identity.New(ctx, cfg.Auth)
	if err != nil {
		return fmt.Errorf("create identity provider: %w", err)
	}

	handler := mediahttp.NewHandler(&mediahttp.HandlerConfig{
		Gate:            mediastore.NewAuthGate(provider),
		CORS:            cfg.CORS,
		MaxRequestBytes: cfg.Server.MaxRequestBytes,
		Health:          db,
	}, broker)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"addr", addr,
			"object_store", cfg.ObjectStore.Backend,
			"bucket", cfg.ObjectStore.Bucket,
			"auth", cfg.Auth.Provider,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
