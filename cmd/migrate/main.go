package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/config"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to configuration file")
		action     = flag.String("action", "up", "migration action: up, down, status")
		steps      = flag.Int("steps", 0, "number of migrations to apply (0 = all)")
		sourceURL  = flag.String("source", "file://migrations", "migration source URL")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, *action, *steps, *sourceURL); err != nil {
		slog.Error("migration failed", "action", *action, "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, action string, steps int, sourceURL string) error {
	switch action {
	case "up", "down":
		m, err := migrate.New(sourceURL, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("initializing migrator: %w", err)
		}
		defer m.Close()

		err = apply(m, action, steps)
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no migrations to apply")
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("migrations applied", "action", action)
		return nil

	case "status":
		return status(cfg)

	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func apply(m *migrate.Migrate, action string, steps int) error {
	if action == "down" {
		if steps > 0 {
			return m.Steps(-steps)
		}
		return m.Down()
	}
	if steps > 0 {
		return m.Steps(steps)
	}
	return m.Up()
}

// status prints the current schema version straight from the database.
func status(cfg *config.Config) error {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var (
		version int64
		dirty   bool
	)
	err = db.QueryRow(`SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	slog.Info("schema status", "version", version, "dirty", dirty)
	return nil
}
