// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/caterbase/pkg/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// devSecret signs tokens when JWT_SECRET is unset. Load refuses it for
// postgres deployments.
const devSecret = "caterbase-dev-secret"

type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    slog.Level
	// DBDebug logs every SQL statement of the gorm backend.
	DBDebug bool
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads the .env file named by files (".env" when none is given) if
// present, then the environment.
// Precedence: explicit env var > .env file > default.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:      getEnv("DB_PATH", "./data/caterbase.db"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   getEnv("JWT_SECRET", devSecret),
		LogLevel:    logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		DBDebug:     strings.EqualFold(os.Getenv("DB_DEBUG"), "true"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			return Config{}, fmt.Errorf("DATABASE_DSN is required for DB_DRIVER=postgres")
		}
		if cfg.JWTSecret == devSecret {
			return Config{}, fmt.Errorf("JWT_SECRET must be set for DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
