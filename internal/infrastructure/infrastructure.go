// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, metrics) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/monitor/internal/config"
	"github.com/JaimeStill/monitor/internal/migrations"
	"github.com/JaimeStill/monitor/pkg/database"
	"github.com/JaimeStill/monitor/pkg/lifecycle"
	"github.com/JaimeStill/monitor/pkg/metrics"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Metrics   metrics.System

	migrate bool
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with log records written to w.
func NewWithOutput(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := NewLogger(&cfg.Logging, w)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Metrics:   metrics.New(),
		migrate:   cfg.Database.Migrate(),
	}, nil
}

// NewLogger builds the root logger from logging config.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.JSON() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// When auto-migration is enabled the schema is applied as a startup hook.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	if i.migrate {
		logger := i.Logger.With("system", "migrations")
		i.Lifecycle.OnStartup(func() error {
			version, err := migrations.Up(i.Lifecycle.Context(), i.Database.Connection(), i.Database.Driver())
			if err != nil {
				logger.Error("schema migration failed", "error", err)
				return fmt.Errorf("migrate schema: %w", err)
			}
			logger.Info("schema up to date", "version", version)
			return nil
		})
	}

	return nil
}
