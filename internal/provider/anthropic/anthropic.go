// Package anthropic speaks the native Anthropic Messages dialect.
package anthropic

import (
	"context"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
	"github.com/Cyclone1070/llmc/internal/tool"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

// DefaultMaxTokens is sent when the profile sets no output limit; the API
// requires one.
const DefaultMaxTokens = 4096

// Provider implements provider.Provider for the Messages dialect.
type Provider struct {
	client  AnthropicClient
	profile provider.Profile
	retrier *transport.Retrier
}

// New creates a Provider. A nil retrier sends exactly one request per turn.
func New(client AnthropicClient, profile provider.Profile, retrier *transport.Retrier) *Provider {
	return &Provider{client: client, profile: profile, retrier: retrier}
}

func (p *Provider) Profile() provider.Profile {
	return p.profile
}

// SendTurn performs one Messages.New call.
func (p *Provider) SendTurn(ctx context.Context, conv *models.Conversation, tools []tool.Declaration) (*provider.AssistantTurn, error) {
	anthropicTools, err := toTools(tools)
	if err != nil {
		return nil, &provider.TransportError{Dialect: provider.DialectAnthropicMessages, Message: "encode request: " + err.Error(), Err: err}
	}
	maxTokens := p.profile.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	system, msgs := toMessages(conv.Turns())
	params := anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(p.profile.Model),
		System:      system,
		Messages:    msgs,
		Tools:       anthropicTools,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropicsdk.Float(p.profile.Temperature),
	}

	resp, err := transport.Retry(ctx, p.retrier, func() (*anthropicsdk.Message, error) {
		resp, err := p.client.NewMessage(ctx, params)
		if err != nil {
			return nil, mapAnthropicError(ctx, err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return fromMessage(resp)
}
