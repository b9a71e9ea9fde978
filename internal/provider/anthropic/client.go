package anthropic

import (
	"context"
	"net/http"

	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient defines the interface for interacting with the Messages API.
type AnthropicClient interface {
	NewMessage(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error)
}

// RealAnthropicClient wraps the official SDK client to satisfy AnthropicClient.
type RealAnthropicClient struct {
	client anthropicsdk.Client
}

// NewRealAnthropicClient creates a new RealAnthropicClient from an SDK client.
func NewRealAnthropicClient(client anthropicsdk.Client) *RealAnthropicClient {
	return &RealAnthropicClient{client: client}
}

// NewClientForProfile builds an SDK client for the profile's endpoint. The key
// travels only in the profile's auth header; SDK retries are disabled.
func NewClientForProfile(profile provider.Profile, httpClient *http.Client) *RealAnthropicClient {
	opts := []option.RequestOption{
		option.WithBaseURL(profile.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithHeader("anthropic-version", provider.AnthropicVersion),
	}
	switch profile.Auth {
	case provider.AuthBearer:
		opts = append(opts, option.WithAuthToken(profile.APIKey), option.WithHeaderDel("x-api-key"))
	default:
		opts = append(opts, option.WithHeader(profile.AuthHeader, profile.APIKey), option.WithHeaderDel("authorization"))
	}
	return NewRealAnthropicClient(anthropicsdk.NewClient(opts...))
}

// NewMessage calls the SDK's Messages.New method.
func (c *RealAnthropicClient) NewMessage(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
	return c.client.Messages.New(ctx, params)
}
