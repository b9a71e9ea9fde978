// Package models defines the conversation log shared by the orchestrator and
// the provider adapters.
package models

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnansweredToolCall is returned when a turn other than a tool result is
	// appended while tool calls are still pending.
	ErrUnansweredToolCall = errors.New("unanswered tool call")

	// ErrUnexpectedToolResult is returned when a tool result does not answer the
	// next pending tool call.
	ErrUnexpectedToolResult = errors.New("unexpected tool result")
)

// Conversation is an append-only log of turns. Appends enforce that every
// tool call of an assistant turn is answered, in order, by exactly one tool
// result before anything else is appended. Turns are never modified once
// appended.
type Conversation struct {
	turns []Turn
}

// NewConversation seeds a conversation with the system and user turns.
func NewConversation(system, user string) *Conversation {
	return &Conversation{turns: []Turn{
		{Role: RoleSystem, Text: system},
		{Role: RoleUser, Text: user},
	}}
}

// AppendAssistant records a model turn.
func (c *Conversation) AppendAssistant(text string, calls []ToolCall) error {
	if pending := c.Pending(); len(pending) > 0 {
		return fmt.Errorf("%w: %s", ErrUnansweredToolCall, pending[0].ID)
	}
	for _, call := range calls {
		if call.ID == "" {
			return fmt.Errorf("tool call %q has no id", call.Name)
		}
	}
	c.turns = append(c.turns, Turn{Role: RoleAssistant, Text: text, ToolCalls: slices.Clone(calls)})
	return nil
}

// AppendToolResult records the answer to the next pending tool call.
func (c *Conversation) AppendToolResult(result ToolResult) error {
	pending := c.Pending()
	if len(pending) == 0 {
		return fmt.Errorf("%w: %s: nothing pending", ErrUnexpectedToolResult, result.ID)
	}
	if pending[0].ID != result.ID {
		return fmt.Errorf("%w: got %s, want %s", ErrUnexpectedToolResult, result.ID, pending[0].ID)
	}
	c.turns = append(c.turns, Turn{Role: RoleTool, Result: &result})
	return nil
}

// Pending returns the tool calls of the last assistant turn that have no
// result yet, in request order.
func (c *Conversation) Pending() []ToolCall {
	answered := 0
	for i := len(c.turns) - 1; i >= 0; i-- {
		switch c.turns[i].Role {
		case RoleTool:
			answered++
		case RoleAssistant:
			calls := c.turns[i].ToolCalls
			if answered >= len(calls) {
				return nil
			}
			return slices.Clone(calls[answered:])
		default:
			return nil
		}
	}
	return nil
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// At returns a copy of turn i.
func (c *Conversation) At(i int) Turn {
	return copyTurn(c.turns[i])
}

// Turns returns a copy of the log.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	for i, t := range c.turns {
		out[i] = copyTurn(t)
	}
	return out
}

// System returns the text of the seed system turn.
func (c *Conversation) System() string {
	if len(c.turns) == 0 || c.turns[0].Role != RoleSystem {
		return ""
	}
	return c.turns[0].Text
}

// AssistantTurns counts the model turns recorded so far.
func (c *Conversation) AssistantTurns() int {
	n := 0
	for _, t := range c.turns {
		if t.Role == RoleAssistant {
			n++
		}
	}
	return n
}

func copyTurn(t Turn) Turn {
	t.ToolCalls = slices.Clone(t.ToolCalls)
	if t.Result != nil {
		r := *t.Result
		t.Result = &r
	}
	return t
}
