// Package gemini speaks the native Gemini dialect through the genai SDK.
package gemini

import (
	"context"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
	"github.com/Cyclone1070/llmc/internal/tool"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client  GeminiClient
	profile provider.Profile
	retrier *transport.Retrier
	newID   func() string
}

// New creates a new GeminiProvider with the specified client. A nil retrier
// sends exactly one request per turn.
func New(client GeminiClient, profile provider.Profile, retrier *transport.Retrier) *GeminiProvider {
	return &GeminiProvider{
		client:  client,
		profile: profile,
		retrier: retrier,
		newID:   func() string { return "call_" + uuid.NewString() },
	}
}

func (p *GeminiProvider) Profile() provider.Profile {
	return p.profile
}

// SendTurn performs one GenerateContent call.
func (p *GeminiProvider) SendTurn(ctx context.Context, conv *models.Conversation, tools []tool.Declaration) (*provider.AssistantTurn, error) {
	system, contents := toGeminiContents(conv.Turns())
	config := toGeminiConfig(p.profile, system, tools)

	resp, err := transport.Retry(ctx, p.retrier, func() (*genai.GenerateContentResponse, error) {
		resp, err := p.client.GenerateContent(ctx, p.profile.Model, contents, config)
		if err != nil {
			return nil, mapGeminiError(ctx, err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return fromGeminiResponse(resp, p.newID)
}
