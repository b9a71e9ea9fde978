package config

import (
	"strings"
	"time"
)

// Overrides are the command-line flags. Zero values leave the setting alone.
type Overrides struct {
	Model    string
	APIBase  string
	Dialect  string
	Timeout  time.Duration
	LogLevel string
}

// Apply copies the set overrides into c and revalidates.
func (c *Config) Apply(o Overrides) error {
	if s := strings.TrimSpace(o.Model); s != "" {
		c.Model = s
	}
	if s := strings.TrimSpace(o.APIBase); s != "" {
		c.APIBase = s
	}
	if s := strings.TrimSpace(o.Dialect); s != "" {
		c.Dialect = s
	}
	if o.Timeout != 0 {
		c.Orchestrator.TimeoutSeconds = o.Timeout.Seconds()
	}
	if s := strings.TrimSpace(o.LogLevel); s != "" {
		c.Log.Level = s
	}
	return c.Validate()
}
