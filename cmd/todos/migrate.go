package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/todos/config"
	"github.com/sagarc03/todos/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the item table",
	Long: `Create the item table and its indexes if they do not exist, then
validate the schema. Safe to run repeatedly.`,
	RunE: runMigrate,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the item table schema",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, true)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Validate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	slog.Info("database migration complete", "type", cfg.Database.Type, "table", cfg.Database.Tables.Items)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, false)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	defer func() { _ = db.Close() }()

	slog.Info("schema is valid", "type", cfg.Database.Type, "table", cfg.Database.Tables.Items)
	return nil
}
