package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverLocal    = "local"
)

type Config struct {
	HTTPAddr        string
	MaxFileSize     int64
	ShutdownTimeout time.Duration
	Store           StoreConfig
	Log             LogConfig
}

type StoreConfig struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	LocalDir    string
	Debug       bool
}

type LogConfig struct {
	Level  slog.Level
	Format string // "json" or "text"
}

func Load() (*Config, error) {
	maxFileSize, err := strconv.ParseInt(getEnv("FILES_MAX_FILE_SIZE", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FILES_MAX_FILE_SIZE: %w", err)
	}
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("invalid FILES_MAX_FILE_SIZE: must be positive")
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("FILES_SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FILES_SHUTDOWN_TIMEOUT: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	format := strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if format != "json" && format != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", format)
	}

	store := StoreConfig{
		Driver:      strings.ToLower(getEnv("FILES_STORE_DRIVER", DriverSQLite)),
		SQLitePath:  getEnv("FILES_SQLITE_PATH", "files.db"),
		PostgresDSN: getEnv("FILES_POSTGRES_DSN", ""),
		LocalDir:    getEnv("FILES_LOCAL_DIR", "/var/files"),
		Debug:       getEnv("DB_DEBUG", "false") == "true",
	}

	switch store.Driver {
	case DriverSQLite, DriverLocal:
	case DriverPostgres:
		if store.PostgresDSN == "" {
			return nil, fmt.Errorf("FILES_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown FILES_STORE_DRIVER %q", store.Driver)
	}

	return &Config{
		HTTPAddr:        getEnv("FILES_HTTP_ADDR", ":8080"),
		MaxFileSize:     maxFileSize,
		ShutdownTimeout: shutdownTimeout,
		Store:           store,
		Log: LogConfig{
			Level:  level,
			Format: format,
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
