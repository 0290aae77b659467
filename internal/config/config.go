// Package config loads service configuration from TOML files and MONITOR_
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMonitorEnv             = "MONITOR_ENV"
	EnvMonitorShutdownTimeout = "MONITOR_SHUTDOWN_TIMEOUT"
	EnvMonitorVersion         = "MONITOR_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "MONITOR_DB_DRIVER",
	Path:            "MONITOR_DB_PATH",
	Host:            "MONITOR_DB_HOST",
	Port:            "MONITOR_DB_PORT",
	Name:            "MONITOR_DB_NAME",
	User:            "MONITOR_DB_USER",
	Password:        "MONITOR_DB_PASSWORD",
	SSLMode:         "MONITOR_DB_SSL_MODE",
	MaxOpenConns:    "MONITOR_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MONITOR_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MONITOR_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MONITOR_DB_CONN_TIMEOUT",
	AutoMigrate:     "MONITOR_DB_AUTO_MIGRATE",
}

var classifierEnv = &classifier.Env{
	BaseURL:   "MONITOR_CLASSIFIER_BASE_URL",
	Model:     "MONITOR_CLASSIFIER_MODEL",
	Token:     "MONITOR_CLASSIFIER_TOKEN",
	Timeout:   "MONITOR_CLASSIFIER_TIMEOUT",
	RateLimit: "MONITOR_CLASSIFIER_RATE_LIMIT",
	Burst:     "MONITOR_CLASSIFIER_BURST",
}

// Config is the root configuration for the Monitor service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Logging         LoggingConfig     `toml:"logging"`
	Database        database.Config   `toml:"database"`
	API             APIConfig         `toml:"api"`
	Classifier      classifier.Config `toml:"classifier"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the MONITOR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMonitorEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load with config files resolved relative to dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Classifier.Merge(&overlay.Classifier)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMonitorShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMonitorVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvMonitorEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
