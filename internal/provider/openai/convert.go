package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
	"github.com/Cyclone1070/llmc/internal/tool"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// toChatMessages flattens the conversation into the role-tagged message list.
// Each tool result becomes its own role:"tool" message.
func toChatMessages(turns []models.Turn) []openaisdk.ChatCompletionMessageParamUnion {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case models.RoleSystem:
			msgs = append(msgs, openaisdk.SystemMessage(t.Text))

		case models.RoleUser:
			msgs = append(msgs, openaisdk.UserMessage(t.Text))

		case models.RoleAssistant:
			var msg openaisdk.ChatCompletionAssistantMessageParam
			if t.Text != "" || len(t.ToolCalls) == 0 {
				msg.Content.OfString = openaisdk.String(t.Text)
			}
			for _, call := range t.ToolCalls {
				args := call.Arguments
				if args == "" {
					args = "{}"
				}
				msg.ToolCalls = append(msg.ToolCalls, openaisdk.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openaisdk.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: args,
					},
				})
			}
			msgs = append(msgs, openaisdk.ChatCompletionMessageParamUnion{OfAssistant: &msg})

		case models.RoleTool:
			if t.Result == nil {
				continue
			}
			msgs = append(msgs, openaisdk.ToolMessage(t.Result.Content, t.Result.ID))
		}
	}
	return msgs
}

func toChatTools(decls []tool.Declaration) ([]openaisdk.ChatCompletionToolParam, error) {
	if len(decls) == 0 {
		return nil, nil
	}
	tools := make([]openaisdk.ChatCompletionToolParam, 0, len(decls))
	for _, d := range decls {
		params, err := d.Parameters.Map()
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", d.Name, err)
		}
		fn := shared.FunctionDefinitionParam{
			Name:       d.Name,
			Parameters: shared.FunctionParameters(params),
		}
		if d.Description != "" {
			fn.Description = openaisdk.String(d.Description)
		}
		tools = append(tools, openaisdk.ChatCompletionToolParam{Function: fn})
	}
	return tools, nil
}

// fromChatCompletion normalizes the first choice.
func fromChatCompletion(resp *openaisdk.ChatCompletion) (*provider.AssistantTurn, error) {
	const d = provider.DialectChatCompletions
	raw := []byte(resp.RawJSON())

	if len(resp.Choices) == 0 {
		return nil, provider.Malformed(d, fmt.Errorf("no choices"), raw)
	}
	choice := resp.Choices[0]

	turn := &provider.AssistantTurn{
		Text:       choice.Message.Content,
		StopReason: choice.FinishReason,
	}
	for i, tc := range choice.Message.ToolCalls {
		if tc.Function.Name == "" {
			return nil, provider.Malformed(d, fmt.Errorf("tool call %d has no function name", i), raw)
		}
		turn.ToolCalls = append(turn.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: argumentText(tc.Function),
		})
	}

	if len(turn.ToolCalls) == 0 && strings.TrimSpace(turn.Text) == "" {
		return nil, provider.Empty(d)
	}
	return turn, nil
}

// argumentText returns the arguments as JSON text. The API sends an encoded
// string; some compatible servers send the object itself.
func argumentText(fn openaisdk.ChatCompletionMessageToolCallFunction) string {
	raw := strings.TrimSpace(fn.JSON.Arguments.Raw())
	if strings.HasPrefix(raw, "{") {
		return raw
	}
	return fn.Arguments
}

// mapOpenAIError maps SDK errors to TransportError.
func mapOpenAIError(ctx context.Context, err error) error {
	var apiErr *openaisdk.Error
	if !errors.As(err, &apiErr) {
		return transport.RequestError(ctx, provider.DialectChatCompletions, err)
	}

	te := transport.HTTPError(provider.DialectChatCompletions, apiErr.StatusCode, []byte(apiErr.RawJSON()))
	if apiErr.Message != "" {
		te.Message = provider.Snippet([]byte(apiErr.Message))
	}
	return te
}
