package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Seed source kinds.
const (
	SeedStatic   = "static"
	SeedFile     = "file"
	SeedPostgres = "postgres"
	SeedAPI      = "api"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	SeedSource      string `env:"SEED_SOURCE" envDefault:"static"`
	SeedFile        string `env:"SEED_FILE"`
	SeedTimeoutSecs int    `env:"SEED_TIMEOUT_SECS" envDefault:"10"`
	RestaurantID    string `env:"RESTAURANT_ID" envDefault:"tajmahal"`

	RestaurantAPIURL         string `env:"RESTAURANT_API_URL"`
	RestaurantAPIKey         string `env:"RESTAURANT_API_KEY"`
	RestaurantAPITimeoutSecs int    `env:"RESTAURANT_API_TIMEOUT_SECS" envDefault:"5"`

	ReadTimeoutSecs  int `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSecs int `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs  int `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`

	DBURL             string `env:"DB_URL"`
	DBMaxConns        int    `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns        int    `env:"DB_MIN_CONNS" envDefault:"0"`
	DBMaxIdleSecs     int    `env:"DB_MAX_CONN_IDLE_SECS" envDefault:"300"`
	DBMaxLifeSecs     int    `env:"DB_MAX_CONN_LIFETIME_SECS" envDefault:"3600"`
	DBConnTimeoutSecs int    `env:"DB_CONN_TIMEOUT_SECS" envDefault:"10"`
	DBStatementCache  int    `env:"DB_STATEMENT_CACHE_CAPACITY" envDefault:"256"`
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.SeedSource {
	case SeedStatic:
	case SeedFile:
		if c.SeedFile == "" {
			return fmt.Errorf("SEED_FILE is required when SEED_SOURCE=file")
		}
	case SeedPostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required when SEED_SOURCE=postgres")
		}
	case SeedAPI:
		if c.RestaurantAPIURL == "" {
			return fmt.Errorf("RESTAURANT_API_URL is required when SEED_SOURCE=api")
		}
	default:
		return fmt.Errorf("SEED_SOURCE must be one of static, file, postgres, api (got %q)", c.SeedSource)
	}

	if c.RestaurantID == "" {
		return fmt.Errorf("RESTAURANT_ID must not be empty")
	}
	if c.SeedTimeoutSecs <= 0 {
		return fmt.Errorf("SEED_TIMEOUT_SECS must be positive")
	}
	if c.RestaurantAPITimeoutSecs <= 0 {
		return fmt.Errorf("RESTAURANT_API_TIMEOUT_SECS must be positive")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}
