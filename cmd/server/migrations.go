package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/postgres"
)

// runMigrations executes a goose command against the configured database.
func runMigrations(cfg *config.Config, command string, logger *slog.Logger) error {
	log := logger.With("component", "migrations", "command", command)

	db, err := setupAppDatabase(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := postgres.Migrate(db, command, log); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}
