package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/config"
)

// ErrUnavailable reports a database that could not be reached. Callers
// seeding from Postgres treat it as "no seed" rather than a failure.
var ErrUnavailable = errors.New("store: database unavailable")

// Options tunes the connection pool. Zero values keep pgx defaults; a
// negative StatementCacheCapacity disables statement caching.
type Options struct {
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	Logger                 *zap.Logger
}

// ServerOptions sizes the pool the review service keeps open for seeding
// and health checks.
func ServerOptions(cfg config.Config, logger *zap.Logger) Options {
	return Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}
}

// LoaderOptions sizes a short-lived pool for one bulk load. Every statement
// runs once, so nothing is cached.
func LoaderOptions(logger *zap.Logger) Options {
	return Options{
		MaxConns:               2,
		ConnTimeout:            10 * time.Second,
		StatementCacheCapacity: -1,
		Logger:                 logger,
	}
}

// DB owns the pool backing the seed tables.
type DB struct {
	pool        *pgxpool.Pool
	logger      *zap.Logger
	pingTimeout time.Duration
}

// Open connects and pings. A malformed URL is returned as is; a database
// that cannot be reached yields an error wrapping ErrUnavailable.
func Open(ctx context.Context, dbURL string, opts Options) (*DB, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := poolConfig(dbURL, opts)
	if err != nil {
		return nil, err
	}

	if opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Warn("store: database unreachable",
			zap.String("host", cfg.ConnConfig.Host),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}

	logger.Info("store: connected",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
		zap.Int32("max_conns", cfg.MaxConns),
	)
	return &DB{pool: pool, logger: logger, pingTimeout: opts.ConnTimeout}, nil
}

func poolConfig(dbURL string, opts Options) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.StatementCacheCapacity >= 0 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.ConnConfig.StatementCacheCapacity = opts.StatementCacheCapacity
	} else {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	}
	return cfg, nil
}

// Close releases the pool. It is safe on a nil DB.
func (d *DB) Close() {
	if d == nil || d.pool == nil {
		return
	}
	d.logger.Debug("store: closing pool")
	d.pool.Close()
}

// HealthCheck pings the database.
func (d *DB) HealthCheck(ctx context.Context) error {
	if d == nil || d.pool == nil {
		return ErrUnavailable
	}
	if d.pingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.pingTimeout)
		defer cancel()
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Pool exposes the pool to repositories.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
