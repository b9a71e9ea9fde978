// Package provider builds the Provider for a profile's dialect.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Cyclone1070/llmc/internal/provider/anthropic"
	"github.com/Cyclone1070/llmc/internal/provider/gemini"
	"github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/openai"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
)

// Options are the shared collaborators of every dialect.
type Options struct {
	HTTPClient *http.Client
	Logger     *slog.Logger

	// Client overrides replace the SDK clients, for tests.
	OpenAIClient    openai.OpenAIClient
	AnthropicClient anthropic.AnthropicClient
	GeminiClient    gemini.GeminiClient
}

// New returns the Provider for profile.Dialect. Every SDK client shares one
// size-capped HTTP client and the profile's retry policy.
func New(ctx context.Context, profile models.Profile, opts Options) (models.Provider, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	logger := opts.Logger.With("dialect", string(profile.Dialect))
	httpClient := transport.NewHTTPClient(opts.HTTPClient, profile.MaxResponseBytes)
	retrier := transport.NewRetrier(profile, transport.WithLogger(logger))

	switch profile.Dialect {
	case models.DialectChatCompletions:
		client := opts.OpenAIClient
		if client == nil {
			client = openai.NewClientForProfile(profile, httpClient)
		}
		return openai.New(client, profile, retrier), nil

	case models.DialectAnthropicMessages:
		client := opts.AnthropicClient
		if client == nil {
			client = anthropic.NewClientForProfile(profile, httpClient)
		}
		return anthropic.New(client, profile, retrier), nil

	case models.DialectGemini:
		client := opts.GeminiClient
		if client == nil {
			sdk, err := gemini.NewClientForProfile(ctx, profile, httpClient)
			if err != nil {
				return nil, fmt.Errorf("create gemini client: %w", err)
			}
			client = sdk
		}
		return gemini.New(client, profile, retrier), nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", profile.Dialect)
}
