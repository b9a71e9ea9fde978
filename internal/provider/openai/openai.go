// Package openai speaks the Chat Completions dialect used by OpenAI and the
// many servers that copy its API.
package openai

import (
	"context"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
	"github.com/Cyclone1070/llmc/internal/tool"
	openaisdk "github.com/openai/openai-go"
)

// Provider implements provider.Provider for the Chat Completions dialect.
type Provider struct {
	client  OpenAIClient
	profile provider.Profile
	retrier *transport.Retrier
}

// New creates a Provider. A nil retrier sends exactly one request per turn.
func New(client OpenAIClient, profile provider.Profile, retrier *transport.Retrier) *Provider {
	return &Provider{client: client, profile: profile, retrier: retrier}
}

func (p *Provider) Profile() provider.Profile {
	return p.profile
}

// SendTurn performs one Chat.Completions.New call.
func (p *Provider) SendTurn(ctx context.Context, conv *models.Conversation, tools []tool.Declaration) (*provider.AssistantTurn, error) {
	chatTools, err := toChatTools(tools)
	if err != nil {
		return nil, &provider.TransportError{Dialect: provider.DialectChatCompletions, Message: "encode request: " + err.Error(), Err: err}
	}
	params := openaisdk.ChatCompletionNewParams{
		Model:       p.profile.Model,
		Messages:    toChatMessages(conv.Turns()),
		Tools:       chatTools,
		Temperature: openaisdk.Float(p.profile.Temperature),
	}

	resp, err := transport.Retry(ctx, p.retrier, func() (*openaisdk.ChatCompletion, error) {
		resp, err := p.client.NewChatCompletion(ctx, params)
		if err != nil {
			return nil, mapOpenAIError(ctx, err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return fromChatCompletion(resp)
}
