package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/config"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/database"
)

// Retention job: purges scored transactions past the retention window,
// along with their resolved alerts. Intended to run from cron.

var (
	configPath = flag.String("config", "configs/config.yaml", "path to configuration file")
	days       = flag.Int("days", 180, "delete transactions older than this many days")
	batchSize  = flag.Int("batch", 5000, "rows deleted per batch")
	dryRun     = flag.Bool("dry-run", false, "report what would be deleted without deleting")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -*days)
	logger.Info("starting retention run",
		zap.Time("cutoff", cutoff),
		zap.Int("batch_size", *batchSize),
		zap.Bool("dry_run", *dryRun))

	if *dryRun {
		if err := report(ctx, db, cutoff, logger); err != nil {
			logger.Fatal("dry run failed", zap.Error(err))
		}
		return
	}

	if err := purge(ctx, db, cutoff, *batchSize, logger); err != nil {
		logger.Fatal("retention run failed", zap.Error(err))
	}
}

func report(ctx context.Context, db *database.DB, cutoff time.Time, logger *zap.Logger) error {
	var transactions, alerts int64

	err := db.Pool().QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE created_at < $1`, cutoff).Scan(&transactions)
	if err != nil {
		return err
	}

	err = db.Pool().QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts a
		JOIN transactions t ON t.id = a.transaction_id
		WHERE t.created_at < $1 AND a.resolved`, cutoff).Scan(&alerts)
	if err != nil {
		return err
	}

	logger.Info("dry run summary",
		zap.Int64("transactions", transactions),
		zap.Int64("resolved_alerts", alerts))
	return nil
}

func purge(ctx context.Context, db *database.DB, cutoff time.Time, batchSize int, logger *zap.Logger) error {
	var totalAlerts, totalTransactions int64

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Alerts first; unresolved alerts pin their transaction.
		tag, err := db.Pool().Exec(ctx, `
			DELETE FROM alerts WHERE id IN (
				SELECT a.id FROM alerts a
				JOIN transactions t ON t.id = a.transaction_id
				WHERE t.created_at < $1 AND a.resolved
				LIMIT $2
			)`, cutoff, batchSize)
		if err != nil {
			return err
		}
		totalAlerts += tag.RowsAffected()

		tag, err = db.Pool().Exec(ctx, `
			DELETE FROM transactions WHERE id IN (
				SELECT t.id FROM transactions t
				WHERE t.created_at < $1
				AND NOT EXISTS (SELECT 1 FROM alerts a WHERE a.transaction_id = t.id)
				LIMIT $2
			)`, cutoff, batchSize)
		if err != nil {
			return err
		}
		totalTransactions += tag.RowsAffected()

		if tag.RowsAffected() == 0 {
			break
		}
	}

	logger.Info("retention run complete",
		zap.Int64("transactions_deleted", totalTransactions),
		zap.Int64("alerts_deleted", totalAlerts))
	return nil
}
