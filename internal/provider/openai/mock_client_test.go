package openai

import (
	"context"
	"errors"

	openaisdk "github.com/openai/openai-go"
)

// MockOpenAIClient is a mock implementation of OpenAIClient for testing.
type MockOpenAIClient struct {
	NewChatCompletionFunc func(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error)
}

// NewChatCompletion calls the mock function if set, otherwise returns an error.
func (m *MockOpenAIClient) NewChatCompletion(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error) {
	if m.NewChatCompletionFunc != nil {
		return m.NewChatCompletionFunc(ctx, params)
	}
	return nil, errors.New("NewChatCompletionFunc not set")
}
