// Package orchestrator drives the conversation between the model and the
// read-only tools until the model produces a command, the round limit is hit
// or the deadline passes.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Cyclone1070/llmc/internal/deadline"
	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/tool"
)

// DefaultMaxRounds bounds the number of tool rounds per run.
const DefaultMaxRounds = 10

// Tool is a tool the model may call. Call never fails: every outcome is a
// ToolResult for the model.
type Tool interface {
	Name() string
	Declaration() tool.Declaration
	Call(ctx context.Context, call models.ToolCall) models.ToolResult
}

// describer is implemented by tools that can render a call for progress output.
type describer interface {
	Describe(call models.ToolCall) string
}

// StatusWriter displays ephemeral progress.
type StatusWriter interface {
	WriteStatus(phase string, message string)
}

type nopStatus struct{}

func (nopStatus) WriteStatus(string, string) {}

// Orchestrator manages the tool loop for one provider.
type Orchestrator struct {
	provider  provider.Provider
	tools     map[string]Tool
	decls     []tool.Declaration
	status    StatusWriter
	logger    *slog.Logger
	maxRounds int
	budget    time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxRounds sets the round limit.
func WithMaxRounds(n int) Option {
	return func(o *Orchestrator) { o.maxRounds = n }
}

// WithBudget sets the wall-clock budget of a run. A parent context with an
// earlier deadline still wins.
func WithBudget(d time.Duration) Option {
	return func(o *Orchestrator) { o.budget = d }
}

// WithStatus sets where progress is reported.
func WithStatus(s StatusWriter) Option {
	return func(o *Orchestrator) { o.status = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates a new Orchestrator instance.
func New(p provider.Provider, tools []Tool, opts ...Option) *Orchestrator {
	if p == nil {
		panic("provider is required")
	}
	o := &Orchestrator{
		provider:  p,
		tools:     make(map[string]Tool, len(tools)),
		status:    nopStatus{},
		logger:    slog.New(slog.DiscardHandler),
		maxRounds: DefaultMaxRounds,
		budget:    deadline.Default,
	}
	for _, t := range tools {
		o.tools[t.Name()] = t
		o.decls = append(o.decls, t.Declaration())
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run seeds a conversation with the system context and the user's request
// and steps the state machine until it reaches a terminal state. The returned
// RunState is never nil; on failure its Err equals the returned error.
func (o *Orchestrator) Run(ctx context.Context, system, request string) (*RunState, error) {
	ctx, cancel := deadline.Start(ctx, o.budget)
	defer cancel()

	d, _ := ctx.Deadline()
	state := &RunState{
		Conversation: models.NewConversation(system, request),
		Deadline:     d,
		State:        StateAwaitingModel,
	}

	for !state.State.Terminal() {
		switch state.State {
		case StateAwaitingModel:
			o.awaitModel(ctx, state)
		case StateToolCallsPending:
			o.runTools(ctx, state)
		}
	}

	if state.State == StateFailed {
		o.logger.Debug("run failed", "rounds", state.Rounds, "error", state.Err)
		return state, state.Err
	}
	o.logger.Debug("run finished", "rounds", state.Rounds, "command", state.Command)
	return state, nil
}

func (o *Orchestrator) awaitModel(ctx context.Context, state *RunState) {
	if state.Rounds >= o.maxRounds {
		state.fail(&RoundLimitError{Rounds: o.maxRounds})
		return
	}
	if err := deadline.Check(ctx); err != nil {
		state.fail(fmt.Errorf("waiting for the model: %w", err))
		return
	}
	if pending := state.Conversation.Pending(); len(pending) > 0 {
		state.fail(fmt.Errorf("%w: %s", models.ErrUnansweredToolCall, pending[0].ID))
		return
	}

	o.status.WriteStatus("thinking", "Thinking...")
	o.logger.Debug("sending turn", "round", state.Rounds+1, "turns", state.Conversation.Len())

	turn, err := o.provider.SendTurn(ctx, state.Conversation, o.decls)
	if err != nil {
		if deadline.Exceeded(ctx, err) {
			state.fail(fmt.Errorf("waiting for the model: %w (%v)", deadline.ErrExceeded, err))
			return
		}
		state.fail(err)
		return
	}

	calls := make([]models.ToolCall, len(turn.ToolCalls))
	for i, call := range turn.ToolCalls {
		if call.ID == "" {
			call.ID = fmt.Sprintf("call_%d_%d", state.Rounds+1, i+1)
		}
		calls[i] = call
	}
	if err := state.Conversation.AppendAssistant(turn.Text, calls); err != nil {
		state.fail(err)
		return
	}

	if turn.Final() {
		command := CleanCommand(turn.Text)
		if command == "" {
			state.fail(provider.Empty(o.provider.Profile().Dialect))
			return
		}
		if strings.ContainsAny(command, "\r\n") {
			state.fail(provider.Malformed(o.provider.Profile().Dialect, ErrMultiLineCommand, []byte(command)))
			return
		}
		state.Command = command
		state.State = StateFinalAnswer
		return
	}
	state.State = StateToolCallsPending
}

func (o *Orchestrator) runTools(ctx context.Context, state *RunState) {
	for _, call := range state.Conversation.Pending() {
		if err := deadline.Check(ctx); err != nil {
			state.fail(fmt.Errorf("running tools: %w", err))
			return
		}

		result := o.executeToolCall(ctx, call)
		if err := state.Conversation.AppendToolResult(result); err != nil {
			state.fail(err)
			return
		}
	}
	state.Rounds++
	state.State = StateAwaitingModel
}

// executeToolCall executes a single tool call and returns the result.
func (o *Orchestrator) executeToolCall(ctx context.Context, call models.ToolCall) models.ToolResult {
	t, ok := o.tools[call.Name]
	if !ok {
		o.logger.Warn("unknown tool requested", "id", call.ID, "tool", call.Name)
		return models.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf("Unknown tool: %s", call.Name),
			Status:  models.ToolErrored,
		}
	}

	label := call.Name
	if d, ok := t.(describer); ok {
		label = d.Describe(call)
	}
	o.status.WriteStatus("executing", "Running: "+label)

	result := t.Call(ctx, call)
	result.ID = call.ID
	if result.Name == "" {
		result.Name = call.Name
	}
	o.logger.Debug("tool finished", "id", call.ID, "tool", call.Name, "status", result.Status, "truncated", result.Truncated)
	return result
}
