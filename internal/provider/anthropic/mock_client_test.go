package anthropic

import (
	"context"
	"errors"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

// MockAnthropicClient is a mock implementation of AnthropicClient for testing.
type MockAnthropicClient struct {
	NewMessageFunc func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error)
}

// NewMessage calls the mock function if set, otherwise returns an error.
func (m *MockAnthropicClient) NewMessage(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
	if m.NewMessageFunc != nil {
		return m.NewMessageFunc(ctx, params)
	}
	return nil, errors.New("NewMessageFunc not set")
}
