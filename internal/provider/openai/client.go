package openai

import (
	"context"
	"net/http"

	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient defines the interface for interacting with a Chat Completions API.
type OpenAIClient interface {
	NewChatCompletion(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error)
}

// RealOpenAIClient wraps the official SDK client to satisfy OpenAIClient.
type RealOpenAIClient struct {
	client openaisdk.Client
}

// NewRealOpenAIClient creates a new RealOpenAIClient from an SDK client.
func NewRealOpenAIClient(client openaisdk.Client) *RealOpenAIClient {
	return &RealOpenAIClient{client: client}
}

// NewClientForProfile builds an SDK client for the profile's endpoint. SDK
// retries are disabled; the provider applies the profile's retry policy.
func NewClientForProfile(profile provider.Profile, httpClient *http.Client) *RealOpenAIClient {
	opts := []option.RequestOption{
		option.WithBaseURL(profile.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	switch profile.Auth {
	case provider.AuthHeader:
		opts = append(opts,
			option.WithHeader(profile.AuthHeader, profile.APIKey),
			option.WithHeaderDel("authorization"),
		)
	default:
		opts = append(opts, option.WithAPIKey(profile.APIKey))
	}
	return NewRealOpenAIClient(openaisdk.NewClient(opts...))
}

// NewChatCompletion calls the SDK's Chat.Completions.New method.
func (c *RealOpenAIClient) NewChatCompletion(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
