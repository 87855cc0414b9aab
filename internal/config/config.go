package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const devJWTSecret = "shopease-dev-secret"

// Config holds environment-driven configuration.
type Config struct {
	Addr                string
	JWTSecret           string
	TokenTTL            time.Duration
	StoreDriver         string
	SQLitePath          string
	DatabaseURL         string
	RabbitMQURL         string
	CatalogFile         string
	CouponsFile         string
	OrderDelay          time.Duration
	NotificationTTL     time.Duration
	StrictCouponRecheck bool
	LogLevel            string
	LogDevelopment      bool
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:        getenv("SHOPEASE_ADDR", ":8080"),
		JWTSecret:   getenv("JWT_SECRET", devJWTSecret),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverMemory)),
		SQLitePath:  getenv("SQLITE_PATH", "shopease.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		CatalogFile: os.Getenv("CATALOG_FILE"),
		CouponsFile: os.Getenv("COUPONS_FILE"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 72*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OrderDelay, err = durationEnv("ORDER_DELAY", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.NotificationTTL, err = durationEnv("NOTIFICATION_TTL", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StrictCouponRecheck, err = boolEnv("STRICT_COUPON_RECHECK", false); err != nil {
		return Config{}, err
	}
	if cfg.LogDevelopment, err = boolEnv("LOG_DEVELOPMENT", false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.OrderDelay < 0 {
		return errors.New("ORDER_DELAY must not be negative")
	}
	return nil
}

// UsesDevSecret reports whether JWT_SECRET was left unset.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationEnv accepts Go durations ("2s") or a bare number of milliseconds.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
