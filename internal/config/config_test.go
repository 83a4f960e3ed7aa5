package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_DSN", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "DB_DEBUG"}

// clearEnv blanks every key for the test; t.Setenv restores them after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr() != ":8080" || cfg.DBDriver != DriverSQLite || cfg.DBPath != "./data/caterbase.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.LogLevel != slog.LevelInfo || cfg.DBDebug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, and an
	// empty value counts as set, so unset the ones the file provides.
	for _, k := range []string{"PORT", "TOKEN_TTL", "LOG_LEVEL"} {
		os.Unsetenv(k)
	}
	t.Setenv("DB_PATH", "/tmp/explicit.db")

	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nTOKEN_TTL=90m\nLOG_LEVEL=debug\nDB_PATH=/tmp/from-file.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Cleanup(func() {
		for _, k := range []string{"PORT", "TOKEN_TTL", "LOG_LEVEL"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.TokenTTL != 90*time.Minute || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DBPath != "/tmp/explicit.db" {
		t.Errorf("DBPath = %q, env var should win over the file", cfg.DBPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"TOKEN_TTL": "-1h"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"postgres without dsn", map[string]string{"DB_DRIVER": "postgres", "JWT_SECRET": "s3cret"}},
		{"postgres with dev secret", map[string]string{"DB_DRIVER": "postgres", "DATABASE_DSN": "postgres://localhost/caterbase"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Error("expected error")
			}
		})
	}
}
