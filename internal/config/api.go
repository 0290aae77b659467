package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/monitor/pkg/formatting"
	"github.com/JaimeStill/monitor/pkg/middleware"
	"github.com/JaimeStill/monitor/pkg/openapi"
	"github.com/JaimeStill/monitor/pkg/pagination"
)

const (
	EnvAPIBasePath       = "MONITOR_API_BASE_PATH"
	EnvAPIMaxRequestSize = "MONITOR_API_MAX_REQUEST_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MONITOR_CORS_ENABLED",
	Origins:          "MONITOR_CORS_ORIGINS",
	AllowedMethods:   "MONITOR_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MONITOR_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MONITOR_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MONITOR_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "MONITOR_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MONITOR_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "MONITOR_OPENAPI_TITLE",
	Description: "MONITOR_OPENAPI_DESCRIPTION",
	Servers:     "MONITOR_OPENAPI_SERVERS",
}

// APIConfig holds API routing, request limits, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxRequestSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxRequestSize); v != "" {
		c.MaxRequestSize = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	return nil
}
