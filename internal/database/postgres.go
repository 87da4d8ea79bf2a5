package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shard-legends/alchemy-service/internal/config"
	"github.com/shard-legends/alchemy-service/pkg/logger"
	"go.uber.org/zap"
)

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	if poolConfig.HealthCheckPeriod <= 0 {
		poolConfig.HealthCheckPeriod = time.Minute
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.Int("max_connections", cfg.MaxConnections),
		zap.Duration("max_idle_time", cfg.MaxIdleTime),
	)

	return &DB{pool: pool}, nil
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
		logger.Info("Database connection pool closed")
	}
}

func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Схема alchemy должна быть применена миграциями
	var exists bool
	if err := db.pool.QueryRow(ctx, "SELECT to_regclass('alchemy.potion_catalog') IS NOT NULL").Scan(&exists); err != nil {
		return fmt.Errorf("database query health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("database schema alchemy is not migrated")
	}

	return nil
}

func (db *DB) Stats() *pgxpool.Stat {
	return db.pool.Stat()
}
