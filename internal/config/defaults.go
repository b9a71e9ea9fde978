package config

import (
	"time"

	"github.com/Cyclone1070/llmc/internal/sandbox"
)

// MaxTimeoutSeconds bounds orchestrator.timeout_seconds so Timeout cannot
// overflow a time.Duration.
const MaxTimeoutSeconds = 3600

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via the config
// file, then the environment, then command-line flags.
// NOTE: Values in the config file override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	APIKey  string `json:"api_key"`
	APIBase string `json:"api_base"`
	Model   string `json:"model"`
	Dialect string `json:"dialect"` // empty: detected from api_base

	Orchestrator OrchestratorConfig `json:"orchestrator"`
	Sandbox      SandboxConfig      `json:"sandbox"`
	Provider     ProviderConfig     `json:"provider"`
	Transport    TransportConfig    `json:"transport"`
	Log          LogConfig          `json:"log"`
}

type OrchestratorConfig struct {
	MaxRounds      int     `json:"max_rounds"`      // Default: 10
	TimeoutSeconds float64 `json:"timeout_seconds"` // Default: 15
}

type SandboxConfig struct {
	AllowedCommands  []string `json:"allowed_commands"`
	MaxOutputBytes   int      `json:"max_output_bytes"`   // Default: 2000
	CommandTimeoutMs int      `json:"command_timeout_ms"` // Default: 0 (run deadline only)
}

type ProviderConfig struct {
	MaxTokens   int     `json:"max_tokens"`  // Default: 4096
	Temperature float64 `json:"temperature"` // Default: 0
}

type TransportConfig struct {
	MaxRetries       int   `json:"max_retries"`        // Default: 0
	MaxResponseBytes int64 `json:"max_response_bytes"` // Default: 4MiB
}

type LogConfig struct {
	Level string `json:"level"` // Default: warn
	File  string `json:"file"`  // Default: stderr
}

// DefaultModel is used when neither the file nor the environment names one.
const DefaultModel = "gpt-4o-mini"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Orchestrator: OrchestratorConfig{
			MaxRounds:      10,
			TimeoutSeconds: 15,
		},
		Sandbox: SandboxConfig{
			AllowedCommands: append([]string(nil), sandbox.DefaultAllowedCommands...),
			MaxOutputBytes:  sandbox.DefaultMaxOutputBytes,
		},
		Provider: ProviderConfig{
			MaxTokens: 4096,
		},
		Transport: TransportConfig{
			MaxResponseBytes: 4 << 20,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Timeout is the run budget.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Orchestrator.TimeoutSeconds * float64(time.Second))
}

// CommandTimeout is the per-command bound; zero means the run deadline only.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Sandbox.CommandTimeoutMs) * time.Millisecond
}

// Policy builds the sandbox policy from the sandbox section.
func (c *Config) Policy() (*sandbox.Policy, error) {
	return sandbox.NewPolicy(c.Sandbox.AllowedCommands, c.Sandbox.MaxOutputBytes, c.CommandTimeout())
}
