package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
	"github.com/Cyclone1070/llmc/internal/tool"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

// toMessages splits the conversation into the system prompt and the
// alternating message list. All tool results answering one assistant turn
// travel together in a single user message.
func toMessages(turns []models.Turn) ([]anthropicsdk.TextBlockParam, []anthropicsdk.MessageParam) {
	var system []anthropicsdk.TextBlockParam
	msgs := make([]anthropicsdk.MessageParam, 0, len(turns))

	for _, t := range turns {
		switch t.Role {
		case models.RoleSystem:
			system = []anthropicsdk.TextBlockParam{{Text: t.Text}}

		case models.RoleUser:
			msgs = append(msgs, anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(t.Text)))

		case models.RoleAssistant:
			var blocks []anthropicsdk.ContentBlockParamUnion
			if strings.TrimSpace(t.Text) != "" {
				blocks = append(blocks, anthropicsdk.NewTextBlock(t.Text))
			}
			for _, call := range t.ToolCalls {
				blocks = append(blocks, anthropicsdk.NewToolUseBlock(call.ID, inputObject(call.Arguments), call.Name))
			}
			if len(blocks) == 0 {
				continue
			}
			msgs = append(msgs, anthropicsdk.NewAssistantMessage(blocks...))

		case models.RoleTool:
			if t.Result == nil {
				continue
			}
			isError := t.Result.Status != "" && t.Result.Status != models.ToolSucceeded
			block := anthropicsdk.NewToolResultBlock(t.Result.ID, t.Result.Content, isError)
			if n := len(msgs); n > 0 && isToolResults(msgs[n-1]) {
				msgs[n-1].Content = append(msgs[n-1].Content, block)
				continue
			}
			msgs = append(msgs, anthropicsdk.NewUserMessage(block))
		}
	}
	return system, msgs
}

func isToolResults(m anthropicsdk.MessageParam) bool {
	return m.Role == anthropicsdk.MessageParamRoleUser && len(m.Content) > 0 && m.Content[0].OfToolResult != nil
}

// inputObject returns the tool_use input. The API requires a JSON object, so
// anything else the model sent earlier is replaced by {}.
func inputObject(arguments string) json.RawMessage {
	trimmed := strings.TrimSpace(arguments)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return json.RawMessage("{}")
}

func toTools(decls []tool.Declaration) ([]anthropicsdk.ToolUnionParam, error) {
	if len(decls) == 0 {
		return nil, nil
	}
	tools := make([]anthropicsdk.ToolUnionParam, 0, len(decls))
	for _, d := range decls {
		schema, err := d.Parameters.Map()
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", d.Name, err)
		}
		input := anthropicsdk.ToolInputSchemaParam{Properties: schema["properties"]}
		if d.Parameters != nil {
			input.Required = d.Parameters.Required
		}
		param := anthropicsdk.ToolParam{Name: d.Name, InputSchema: input}
		if d.Description != "" {
			param.Description = anthropicsdk.String(d.Description)
		}
		tools = append(tools, anthropicsdk.ToolUnionParam{OfTool: &param})
	}
	return tools, nil
}

// fromMessage collects text blocks and tool_use blocks in order.
func fromMessage(resp *anthropicsdk.Message) (*provider.AssistantTurn, error) {
	const d = provider.DialectAnthropicMessages
	raw := []byte(resp.RawJSON())

	turn := &provider.AssistantTurn{StopReason: string(resp.StopReason)}
	var texts []string

	for i, block := range resp.Content {
		switch block.Type {
		case "text":
			if s := strings.TrimSpace(block.Text); s != "" {
				texts = append(texts, s)
			}
		case "tool_use":
			if block.ID == "" || block.Name == "" {
				return nil, provider.Malformed(d, fmt.Errorf("tool_use block %d lacks id or name", i), raw)
			}
			args := strings.TrimSpace(string(block.Input))
			if args == "" || args == "null" {
				args = "{}"
			}
			turn.ToolCalls = append(turn.ToolCalls, models.ToolCall{ID: block.ID, Name: block.Name, Arguments: args})
		}
	}
	turn.Text = strings.Join(texts, "\n")

	if len(turn.ToolCalls) == 0 && turn.Text == "" {
		return nil, provider.Empty(d)
	}
	return turn, nil
}

// mapAnthropicError maps SDK errors to TransportError.
func mapAnthropicError(ctx context.Context, err error) error {
	var apiErr *anthropicsdk.Error
	if !errors.As(err, &apiErr) {
		return transport.RequestError(ctx, provider.DialectAnthropicMessages, err)
	}
	return transport.HTTPError(provider.DialectAnthropicMessages, apiErr.StatusCode, []byte(apiErr.RawJSON()))
}
