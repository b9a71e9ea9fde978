package models

import (
	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
)

// AssistantTurn is one normalized model reply.
type AssistantTurn struct {
	Text      string
	ToolCalls []models.ToolCall

	// StopReason is the provider's finish reason, for logging only.
	StopReason string
}

// Final reports whether the reply ends the conversation.
func (t *AssistantTurn) Final() bool {
	return len(t.ToolCalls) == 0
}
