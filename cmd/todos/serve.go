package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/attachment"
	"github.com/sagarc03/todos/config"
	"github.com/sagarc03/todos/database"
	todoshttp "github.com/sagarc03/todos/http"
	"github.com/sagarc03/todos/imagefilter"
	"github.com/sagarc03/todos/keybackend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the todos HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port (env: TODOS_SERVER_PORT)")
	serveCmd.Flags().Bool("migrate", false, "create missing tables before serving (env: TODOS_SERVER_MIGRATE)")
	serveCmd.Flags().String("storage-type", "", "attachment storage: s3, stowry (default: s3, env: TODOS_STORAGE_TYPE)")
	serveCmd.Flags().String("jwks-url", "", "JWKS endpoint of the token issuer (env: TODOS_AUTH_KEYS_JWKS_URL)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, cfg.Server.Migrate)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	slog.Info("connected to database", "type", cfg.Database.Type, "table", cfg.Database.Tables.Items)

	locator, err := attachment.NewLocator(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("create attachment locator: %w", err)
	}

	service, err := todos.NewItemService(db.GetRepo(), locator, todos.ServiceConfig{})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	keys, err := keybackend.NewKeySet(cfg.Auth.Keys)
	if err != nil {
		return fmt.Errorf("create key set: %w", err)
	}

	verifier, err := todos.NewIdentityVerifier(cfg.Auth.AuthConfig, keys)
	if err != nil {
		return fmt.Errorf("create verifier: %w", err)
	}

	handlerConfig := todoshttp.HandlerConfig{
		Verifier:    verifier,
		CORS:        cfg.CORS,
		MaxBodySize: cfg.Server.MaxBodySize,
		HealthCheck: db.Ping,
	}
	if cfg.ImageFilter.Enabled {
		handlerConfig.ImageFilter = imagefilter.New(cfg.ImageFilter)
	}

	handler := todoshttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"storage", cfg.Storage.Type,
		"image_filter", cfg.ImageFilter.Enabled,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
