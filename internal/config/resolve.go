package config

import (
	"strings"

	"github.com/Cyclone1070/llmc/internal/provider/models"
)

// Resolve turns the configuration into a provider profile. A missing API key
// or model is a ConfigError.
func (c *Config) Resolve() (models.Profile, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return models.Profile{}, &ConfigError{
			Field:  "api_key",
			Reason: "is not set (export " + EnvAPIKey + " or add api_key to the config file)",
		}
	}
	if strings.TrimSpace(c.Model) == "" {
		return models.Profile{}, &ConfigError{Field: "model", Reason: "is not set"}
	}

	dialect := models.DetectDialect(c.APIBase)
	if c.Dialect != "" {
		d, err := models.ParseDialect(c.Dialect)
		if err != nil {
			return models.Profile{}, &ConfigError{Field: "dialect", Reason: err.Error()}
		}
		dialect = d
	}

	profile := models.NewProfile(dialect, strings.TrimSpace(c.APIBase), strings.TrimSpace(c.APIKey), strings.TrimSpace(c.Model))
	profile.MaxTokens = c.Provider.MaxTokens
	profile.Temperature = c.Provider.Temperature
	profile.MaxRetries = c.Transport.MaxRetries
	profile.MaxResponseBytes = c.Transport.MaxResponseBytes
	return profile, nil
}
