package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nicolas-cahorel/P3-Mission/internal/config"
)

func TestOpenInvalidURL(t *testing.T) {
	_, err := Open(context.Background(), "://not-a-url", Options{})
	if err == nil || !strings.Contains(err.Error(), "parse db url") {
		t.Fatalf("Open() error = %v, want parse db url error", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("a malformed url is a configuration error, not an unavailable database")
	}
}

func TestOpenUnreachableIsUnavailable(t *testing.T) {
	opts := LoaderOptions(nil)
	opts.ConnTimeout = 2 * time.Second

	_, err := Open(context.Background(), "postgres://u:p@127.0.0.1:1/db?sslmode=disable", opts)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Open() error = %v, want ErrUnavailable", err)
	}
}

func TestPoolConfig(t *testing.T) {
	cfg := config.Config{
		DBMaxConns:        12,
		DBMinConns:        3,
		DBMaxIdleSecs:     30,
		DBMaxLifeSecs:     600,
		DBConnTimeoutSecs: 5,
		DBStatementCache:  64,
	}
	pc, err := poolConfig("postgres://u:p@localhost:5432/reviews", ServerOptions(cfg, nil))
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MaxConns != 12 || pc.MinConns != 3 {
		t.Fatalf("conns = %d/%d, want 12/3", pc.MaxConns, pc.MinConns)
	}
	if pc.MaxConnIdleTime != 30*time.Second || pc.MaxConnLifetime != 10*time.Minute {
		t.Fatalf("idle/life = %s/%s", pc.MaxConnIdleTime, pc.MaxConnLifetime)
	}
	if pc.ConnConfig.DefaultQueryExecMode != pgx.QueryExecModeCacheStatement || pc.ConnConfig.StatementCacheCapacity != 64 {
		t.Fatalf("statement cache not applied: mode=%v cap=%d", pc.ConnConfig.DefaultQueryExecMode, pc.ConnConfig.StatementCacheCapacity)
	}
}

func TestPoolConfig_LoaderSkipsStatementCache(t *testing.T) {
	pc, err := poolConfig("postgres://u:p@localhost:5432/reviews", LoaderOptions(nil))
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MaxConns != 2 {
		t.Fatalf("MaxConns = %d, want 2", pc.MaxConns)
	}
	if pc.ConnConfig.DefaultQueryExecMode != pgx.QueryExecModeExec {
		t.Fatalf("exec mode = %v, want QueryExecModeExec", pc.ConnConfig.DefaultQueryExecMode)
	}
}

func TestNilDB(t *testing.T) {
	var d *DB
	d.Close()
	if err := d.HealthCheck(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("HealthCheck() = %v, want ErrUnavailable", err)
	}
}
