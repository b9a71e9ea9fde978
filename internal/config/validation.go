package config

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/Cyclone1070/llmc/internal/logging"
	"github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/sandbox"
)

// Validate checks config values for correctness. Credentials are checked by
// Resolve, so a config without an API key still validates.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, reason string) {
		errs = append(errs, &ConfigError{Field: field, Reason: reason})
	}

	if c.Dialect != "" {
		if _, err := models.ParseDialect(c.Dialect); err != nil {
			add("dialect", "must be one of chat_completions, anthropic_messages, gemini")
		}
	}

	// Orchestrator validation
	if c.Orchestrator.MaxRounds < 1 {
		add("orchestrator.max_rounds", "must be >= 1")
	}
	if t := c.Orchestrator.TimeoutSeconds; t <= 0 || t > MaxTimeoutSeconds {
		add("orchestrator.timeout_seconds", "must be > 0 and <= "+strconv.Itoa(MaxTimeoutSeconds))
	}

	// Sandbox validation
	if len(c.Sandbox.AllowedCommands) == 0 {
		add("sandbox.allowed_commands", "must not be empty")
	}
	for _, name := range c.Sandbox.AllowedCommands {
		switch {
		case name == "" || strings.ContainsAny(name, "/\\ \t\n"):
			add("sandbox.allowed_commands", "entry "+strconv.Quote(name)+" must be a bare command name")
		case !slices.Contains(sandbox.DefaultAllowedCommands, name):
			add("sandbox.allowed_commands", "entry "+strconv.Quote(name)+" is not a read-only command")
		}
	}
	if c.Sandbox.MaxOutputBytes < 1 {
		add("sandbox.max_output_bytes", "must be >= 1")
	}
	if c.Sandbox.CommandTimeoutMs < 0 {
		add("sandbox.command_timeout_ms", "must be >= 0")
	}

	// Provider and transport validation
	if c.Provider.MaxTokens < 1 {
		add("provider.max_tokens", "must be >= 1")
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		add("provider.temperature", "must be between 0 and 2")
	}
	if c.Transport.MaxRetries < 0 {
		add("transport.max_retries", "must be >= 0")
	}
	if c.Transport.MaxResponseBytes < 1 {
		add("transport.max_response_bytes", "must be >= 1")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "must be one of debug, info, warn, error")
	}

	return errors.Join(errs...)
}
