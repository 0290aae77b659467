package openapi

import (
	"os"
	"strings"
)

// Config describes the published API document.
// Servers lists extra server URLs advertised after the service base path.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Monitor API"
	}
	if c.Description == "" {
		c.Description = "Guideline compliance analysis of actions via zero-shot classification."
	}
	if env == nil {
		return nil
	}
	if v := lookup(env.Title); v != "" {
		c.Title = v
	}
	if v := lookup(env.Description); v != "" {
		c.Description = v
	}
	if v := lookup(env.Servers); v != "" {
		c.Servers = nil
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

// Spec starts a document for the given service version mounted at basePath.
func (c *Config) Spec(version, basePath string) *Spec {
	spec := NewSpec(c.Title, version)
	spec.SetDescription(c.Description)
	spec.AddServer(basePath)
	for _, s := range c.Servers {
		spec.AddServer(s)
	}
	return spec
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
