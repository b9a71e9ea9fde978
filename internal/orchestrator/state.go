package orchestrator

import (
	"time"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
)

// State is a node of the run's state machine.
//
//	AwaitingModel -> FinalAnswer | ToolCallsPending | Failed
//	ToolCallsPending -> AwaitingModel | Failed
type State string

const (
	StateAwaitingModel    State = "awaiting_model"
	StateToolCallsPending State = "tool_calls_pending"
	StateFinalAnswer      State = "final_answer"
	StateFailed           State = "failed"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFinalAnswer || s == StateFailed
}

// RunState is the per-invocation state owned by one Run call.
type RunState struct {
	Conversation *models.Conversation
	// Rounds counts model turns whose tool calls have all been answered.
	Rounds   int
	Deadline time.Time
	State    State

	// Command is set in StateFinalAnswer.
	Command string
	// Err is set in StateFailed.
	Err error
}

func (s *RunState) fail(err error) {
	s.State = StateFailed
	s.Err = err
}
