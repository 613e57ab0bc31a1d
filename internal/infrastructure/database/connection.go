package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/config"
)

// DB wraps a pgx connection pool. Repositories use the pool directly; the
// stdlib adapter exists for tools that need database/sql, such as the
// migration runner.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect parses the database URL, applies pool limits from config and
// verifies the connection with a ping.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.HealthCheckPeriod = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("database connected",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Duration("max_conn_lifetime", poolCfg.MaxConnLifetime))

	return &DB{pool: pool, logger: logger}, nil
}

// Pool exposes the underlying pgx pool for repositories.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// StdDB returns a database/sql handle backed by the same pool.
func (db *DB) StdDB() *sql.DB {
	return stdlib.OpenDBFromPool(db.pool)
}

// Health pings the database with a short deadline.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}

// Close releases all pool connections.
func (db *DB) Close() {
	db.pool.Close()
	db.logger.Info("database connection pool closed")
}
