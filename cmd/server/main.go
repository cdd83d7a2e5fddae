// Package main is the entry point for the task management API server.
//
// Without flags it serves the HTTP API. With -migrate it applies or inspects
// the database schema and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run database migrations (up, down, status, version)")
	flag.Parse()

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, l); err != nil {
			l.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), cfg, l); err != nil {
		l.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// loadAppConfig loads the configuration and logs a summary of it.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"mail_enabled", cfg.Mail.Enabled())
	return cfg, nil
}

// run connects to the database, wires the application and serves until the
// process is signalled.
func run(ctx context.Context, cfg *config.Config, l *slog.Logger) error {
	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
