// Package readonly implements the run_readonly_command tool: it decodes the
// model's arguments and hands them to the sandbox.
package readonly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	"github.com/Cyclone1070/llmc/internal/sandbox"
	"github.com/Cyclone1070/llmc/internal/tool"
	"github.com/mitchellh/mapstructure"
)

// Name is the tool name surfaced to the model.
const Name = "run_readonly_command"

// Request is the decoded tool input.
type Request struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// Validate checks the request shape. Whether the command is permitted is the
// sandbox's decision, not this one.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Command) == "" {
		return errors.New("command is required")
	}
	return nil
}

// commandExecutor is the part of sandbox.Executor the tool needs.
type commandExecutor interface {
	Execute(ctx context.Context, req sandbox.Request) *sandbox.Result
}

// Tool exposes the sandbox to the model.
type Tool struct {
	executor commandExecutor
	commands []string
}

// New creates the tool. commands is listed in the tool description so the
// model knows what it may run.
func New(executor commandExecutor, commands []string) *Tool {
	if executor == nil {
		panic("executor is required")
	}
	return &Tool{executor: executor, commands: commands}
}

func (t *Tool) Name() string {
	return Name
}

// Declaration describes the tool to the provider.
func (t *Tool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name: Name,
		Description: fmt.Sprintf("Execute a read-only command on the local system to inspect files, directories, or text. "+
			"Only whitelisted commands are allowed: %s.", strings.Join(t.commands, ", ")),
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"command": {
					Type:        tool.TypeString,
					Description: `The command binary to run (e.g. "ls", "grep")`,
				},
				"args": {
					Type:        tool.TypeArray,
					Items:       &tool.Schema{Type: tool.TypeString},
					Description: "Arguments to pass to the command",
				},
			},
			Required: []string{"command"},
		},
	}
}

// Describe renders a call for progress output, e.g. "ls -la /tmp".
// Undecodable arguments fall back to the tool name.
func (t *Tool) Describe(call models.ToolCall) string {
	req, err := Decode(call.Arguments)
	if err != nil {
		return Name
	}
	return strings.TrimSpace(req.Command + " " + strings.Join(req.Args, " "))
}

// Call runs one tool call. Every outcome, including bad arguments, is
// returned as a ToolResult for the model.
func (t *Tool) Call(ctx context.Context, call models.ToolCall) models.ToolResult {
	result := models.ToolResult{ID: call.ID, Name: Name}

	req, err := Decode(call.Arguments)
	if err != nil {
		result.Status = models.ToolErrored
		result.Content = "Error parsing arguments: " + err.Error()
		return result
	}

	res := t.executor.Execute(ctx, sandbox.Request{ID: call.ID, Command: req.Command, Args: req.Args})
	result.Content = res.Content()
	result.Status = toolStatus(res.Status)
	result.Truncated = res.Truncated
	return result
}

// Decode parses the JSON argument text of a call into a Request.
func Decode(arguments string) (Request, error) {
	var req Request

	raw := map[string]any{}
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
			return req, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &req,
		TagName: "mapstructure",
	})
	if err != nil {
		return req, err
	}
	if err := decoder.Decode(raw); err != nil {
		return req, err
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func toolStatus(s sandbox.Status) models.ToolStatus {
	switch s {
	case sandbox.StatusSucceeded:
		return models.ToolSucceeded
	case sandbox.StatusDenied:
		return models.ToolDenied
	case sandbox.StatusTimedOut:
		return models.ToolTimedOut
	default:
		return models.ToolErrored
	}
}
