package gemini

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
	"google.golang.org/genai"
)

// toGeminiContents splits the conversation into the system instruction and
// the content list. Consecutive tool results share one user content.
func toGeminiContents(turns []models.Turn) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(turns))
	names := map[string]string{}

	for _, t := range turns {
		switch t.Role {
		case models.RoleSystem:
			system = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(t.Text)}}

		case models.RoleUser:
			contents = append(contents, genai.NewContentFromText(t.Text, genai.RoleUser))

		case models.RoleAssistant:
			parts := make([]*genai.Part, 0, len(t.ToolCalls)+1)
			if t.Text != "" {
				parts = append(parts, genai.NewPartFromText(t.Text))
			}
			for _, call := range t.ToolCalls {
				names[call.ID] = call.Name
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   call.ID,
						Name: call.Name,
						Args: argsMap(call.Arguments),
					},
				})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case models.RoleTool:
			if t.Result == nil {
				continue
			}
			name := t.Result.Name
			if name == "" {
				name = names[t.Result.ID]
			}
			part := &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       t.Result.ID,
					Name:     name,
					Response: map[string]any{"output": t.Result.Content},
				},
			}
			if n := len(contents); n > 0 && isFunctionResponses(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		}
	}
	return system, contents
}

func isFunctionResponses(c *genai.Content) bool {
	return c.Role == genai.RoleUser && len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

// argsMap decodes call arguments; anything that is not a JSON object
// becomes an empty map.
func argsMap(arguments string) map[string]any {
	args := map[string]any{}
	if strings.TrimSpace(arguments) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

// toGeminiConfig builds the request config.
func toGeminiConfig(profile provider.Profile, system *genai.Content, decls []tool.Declaration) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(profile.Temperature)),
		SafetySettings:    defaultSafetySettings(),
		Tools:             toGeminiTools(decls),
	}
	if profile.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(profile.MaxTokens)
	}
	return cfg
}

// defaultSafetySettings disables blocking. Requests are about shell
// commands, which trip the dangerous-content filter on harmless input.
func defaultSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategorySexuallyExplicit,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockThresholdOff})
	}
	return settings
}

// toGeminiTools converts tool declarations to Gemini tools.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	fds := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if d.Parameters != nil {
			fd.Parameters = toGeminiSchema(d.Parameters)
		}
		fds = append(fds, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: fds}}
}

// toGeminiSchema converts a tool schema recursively.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGeminiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse normalizes the first candidate. Function calls without
// an id get one from newID so every call can be answered by id.
func fromGeminiResponse(resp *genai.GenerateContentResponse, newID func() string) (*provider.AssistantTurn, error) {
	const d = provider.DialectGemini

	if resp == nil || len(resp.Candidates) == 0 {
		msg := "no candidates in response"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, &provider.TransportError{Dialect: d, Message: msg, Err: provider.ErrEmptyResponse}
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &provider.TransportError{Dialect: d, Message: "content blocked by safety filters", Err: provider.ErrEmptyResponse}
	}

	turn := &provider.AssistantTurn{StopReason: string(candidate.FinishReason)}
	if candidate.Content == nil {
		return nil, provider.Empty(d)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			fc := part.FunctionCall
			if fc.Name == "" {
				return nil, &provider.TransportError{Dialect: d, Message: "malformed response: function call without name", Err: provider.ErrMalformedResponse}
			}
			args, err := json.Marshal(fc.Args)
			if err != nil {
				return nil, &provider.TransportError{Dialect: d, Message: "malformed response: " + err.Error(), Err: provider.ErrMalformedResponse}
			}
			if fc.Args == nil {
				args = []byte("{}")
			}
			id := fc.ID
			if id == "" {
				id = newID()
			}
			turn.ToolCalls = append(turn.ToolCalls, models.ToolCall{ID: id, Name: fc.Name, Arguments: string(args)})
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	turn.Text = text.String()

	if len(turn.ToolCalls) == 0 && strings.TrimSpace(turn.Text) == "" {
		return nil, provider.Empty(d)
	}
	return turn, nil
}

// mapGeminiError maps SDK errors to TransportError.
func mapGeminiError(ctx context.Context, err error) error {
	const d = provider.DialectGemini

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr):
		apiErr = *apiErrPtr
	default:
		return transport.RequestError(ctx, d, err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Status
	}
	return &provider.TransportError{
		Dialect:    d,
		StatusCode: apiErr.Code,
		Message:    provider.Snippet([]byte(msg)),
		Retryable:  provider.RetryableStatus(apiErr.Code),
		Err:        fmt.Errorf("%w: %w", provider.ErrHTTPStatus, err),
	}
}
