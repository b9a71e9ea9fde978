package models

import (
	"context"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	"github.com/Cyclone1070/llmc/internal/tool"
)

// Provider performs exactly one request/response cycle per SendTurn.
type Provider interface {
	// SendTurn sends the whole conversation plus the tool declarations and
	// returns the model's next turn. Any failure, including a malformed or
	// empty reply, is a *TransportError.
	SendTurn(ctx context.Context, conv *models.Conversation, tools []tool.Declaration) (*AssistantTurn, error)

	// Profile returns the backend description the provider was built from.
	Profile() Profile
}
