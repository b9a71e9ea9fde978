package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ConfigDir is the directory name under the XDG config home
	ConfigDir = "llmc"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

// Environment variables read by the loader. Empty values are ignored.
const (
	EnvAPIKey   = "LLM_API_KEY"
	EnvAPIBase  = "LLM_API_BASE"
	EnvModel    = "LLM_MODEL"
	EnvDialect  = "LLM_DIALECT"
	EnvLogLevel = "LLMC_LOG_LEVEL"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LookupEnv has the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs  FileSystem
	env LookupEnv
}

// NewLoader creates a production Loader using the real filesystem and environment
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, env: os.LookupEnv}
}

// NewLoaderWithFS creates a Loader with a custom filesystem and environment (for testing)
func NewLoaderWithFS(fs FileSystem, env LookupEnv) *Loader {
	if env == nil {
		env = func(string) (string, bool) { return "", false }
	}
	return &Loader{fs: fs, env: env}
}

// Path returns $XDG_CONFIG_HOME/llmc/config.json, or ~/.config/llmc/config.json
// when XDG_CONFIG_HOME is unset. It returns "" when neither can be determined.
func (l *Loader) Path() string {
	if base := l.getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, ConfigDir, ConfigFile)
	}
	homeDir, err := l.fs.UserHomeDir()
	if err != nil || homeDir == "" {
		return ""
	}
	return filepath.Join(homeDir, ".config", ConfigDir, ConfigFile)
}

// Load reads the config file, merges it over the defaults and applies the
// environment on top. A missing file is not an error.
//
// NOTE: JSON keys are unmarshalled directly over the default configuration,
// so explicit zero values in the file override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := l.Path(); path != "" {
		data, err := l.fs.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Use defaults if file doesn't exist
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	for key, dst := range map[string]*string{
		EnvAPIKey:   &cfg.APIKey,
		EnvAPIBase:  &cfg.APIBase,
		EnvModel:    &cfg.Model,
		EnvDialect:  &cfg.Dialect,
		EnvLogLevel: &cfg.Log.Level,
	} {
		if v := l.getenv(key); v != "" {
			*dst = v
		}
	}
}

func (l *Loader) getenv(key string) string {
	v, ok := l.env(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
