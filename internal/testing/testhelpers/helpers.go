// Package testhelpers provides shared fakes for tests that drive a whole run
package testhelpers

import (
	"context"
	"errors"
	"sync"

	orchmodels "github.com/Cyclone1070/llmc/internal/orchestrator/models"
	"github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/tool"
)

// ErrNoResponse is returned once the queued responses run out.
var ErrNoResponse = errors.New("mock provider: no response queued")

type queued struct {
	turn *models.AssistantTurn
	err  error
}

// MockProvider replays queued turns in order.
type MockProvider struct {
	mu            sync.Mutex
	profile       models.Profile
	responses     []queued
	responseIndex int
	// OnSendTurnCalled is a callback for observing SendTurn calls
	OnSendTurnCalled func(conv *orchmodels.Conversation, tools []tool.Declaration)
}

// NewMockProvider creates a new mock provider with a chat-completions profile
func NewMockProvider() *MockProvider {
	return &MockProvider{
		profile: models.NewProfile(models.DialectChatCompletions, "", "mock-key", "mock-model"),
	}
}

// WithProfile sets the profile returned by Profile
func (m *MockProvider) WithProfile(p models.Profile) *MockProvider {
	m.profile = p
	return m
}

// WithTextResponse adds a final answer to the queue
func (m *MockProvider) WithTextResponse(text string) *MockProvider {
	m.responses = append(m.responses, queued{turn: &models.AssistantTurn{Text: text, StopReason: "stop"}})
	return m
}

// WithToolCallResponse adds a tool call turn to the queue
func (m *MockProvider) WithToolCallResponse(calls ...orchmodels.ToolCall) *MockProvider {
	m.responses = append(m.responses, queued{turn: &models.AssistantTurn{ToolCalls: calls, StopReason: "tool_calls"}})
	return m
}

// WithError adds a failing turn to the queue
func (m *MockProvider) WithError(err error) *MockProvider {
	m.responses = append(m.responses, queued{err: err})
	return m
}

// SendTurn implements the Provider interface
func (m *MockProvider) SendTurn(ctx context.Context, conv *orchmodels.Conversation, tools []tool.Declaration) (*models.AssistantTurn, error) {
	if m.OnSendTurnCalled != nil {
		m.OnSendTurnCalled(conv, tools)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.responseIndex >= len(m.responses) {
		return nil, ErrNoResponse
	}
	resp := m.responses[m.responseIndex]
	m.responseIndex++
	return resp.turn, resp.err
}

// Profile implements the Provider interface
func (m *MockProvider) Profile() models.Profile {
	return m.profile
}

// Calls returns how many turns were consumed
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.responseIndex
}

// MockStatus records status updates
type MockStatus struct {
	mu       sync.Mutex
	Statuses []string
	Closed   bool
}

func (m *MockStatus) WriteStatus(phase, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses = append(m.Statuses, phase+": "+message)
}

func (m *MockStatus) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// GetStatuses returns a copy of the recorded updates
func (m *MockStatus) GetStatuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Statuses))
	copy(out, m.Statuses)
	return out
}
