package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port        string
	TokenSecret string
	TokenTTL    time.Duration
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
}

// Load reads configuration from the environment. When path is non-empty the
// .env file at path is loaded first; a missing file is not an error so the
// same binary runs in containers where env is injected directly.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getenv("APP_PORT", "8080")

	cfg.App.TokenSecret = os.Getenv("TOKEN_SECRET")
	if cfg.App.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}

	ttlMinutes, err := intenv("TOKEN_TTL_MINUTES", 20)
	if err != nil {
		return nil, err
	}
	cfg.App.TokenTTL = time.Duration(ttlMinutes) * time.Minute

	for _, required := range []struct {
		key string
		dst *string
	}{
		{"DB_HOST", &cfg.Postgres.Host},
		{"DB_PORT", &cfg.Postgres.Port},
		{"DB_USER", &cfg.Postgres.User},
		{"DB_PASSWORD", &cfg.Postgres.Password},
		{"DB_NAME", &cfg.Postgres.DBName},
	} {
		*required.dst = os.Getenv(required.key)
		if *required.dst == "" {
			return nil, fmt.Errorf("%s is required", required.key)
		}
	}

	cfg.Postgres.SSLMode = getenv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getenv("MIGRATIONS_PATH", "migrations")

	maxConns, err := intenv("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConns = int32(maxConns)

	minConns, err := intenv("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MinConns = int32(minConns)

	lifetimeMinutes, err := intenv("DB_MAX_CONN_LIFETIME_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConnLifetime = time.Duration(lifetimeMinutes) * time.Minute

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intenv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}
