package main

import (
	"log/slog"
	"time"

	"pointledger/internal/config"
)

// Store backends selectable via APP_STORE_BACKEND.
const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	StoreBackend    string        `env:"APP_STORE_BACKEND" envDefault:"memory"`
	Postgres        config.PostgresConfig
}
