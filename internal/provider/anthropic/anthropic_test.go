package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	provider "github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/transport"
	"github.com/Cyclone1070/llmc/internal/tool"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTool = tool.Declaration{
	Name:        "run_readonly_command",
	Description: "inspect",
	Parameters:  &tool.Schema{Type: tool.TypeObject, Required: []string{"command"}},
}

func newTestProfile(baseURL string) provider.Profile {
	return provider.NewProfile(provider.DialectAnthropicMessages, baseURL, "ak-test", "claude-test")
}

// newTestProvider runs the real SDK client against handler.
func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	profile := newTestProfile(srv.URL)
	client := NewClientForProfile(profile, transport.NewHTTPClient(srv.Client(), profile.MaxResponseBytes))
	return New(client, profile, nil)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestSendTurn_RequestShape(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
			System      []struct {
				Text string `json:"text"`
			} `json:"system"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
			Tools []struct {
				Name        string         `json:"name"`
				Description string         `json:"description"`
				InputSchema map[string]any `json:"input_schema"`
			} `json:"tools"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body.Model)
		assert.Equal(t, 4096, body.MaxTokens)
		assert.Zero(t, body.Temperature)
		if assert.Len(t, body.System, 1) {
			assert.Equal(t, "sys", body.System[0].Text)
		}
		if assert.Len(t, body.Messages, 1) && assert.Len(t, body.Messages[0].Content, 1) {
			assert.Equal(t, "user", body.Messages[0].Role)
			assert.Equal(t, "text", body.Messages[0].Content[0].Type)
			assert.Equal(t, "list files here", body.Messages[0].Content[0].Text)
		}
		if assert.Len(t, body.Tools, 1) {
			assert.Equal(t, "run_readonly_command", body.Tools[0].Name)
			assert.Equal(t, "inspect", body.Tools[0].Description)
			assert.Equal(t, "object", body.Tools[0].InputSchema["type"])
			assert.Equal(t, []any{"command"}, body.Tools[0].InputSchema["required"])
		}

		writeJSON(w, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"ls -la\n"}],"stop_reason":"end_turn"}`)
	})

	turn, err := p.SendTurn(context.Background(), models.NewConversation("sys", "list files here"), []tool.Declaration{testTool})

	require.NoError(t, err)
	assert.True(t, turn.Final())
	assert.Equal(t, "ls -la", turn.Text)
	assert.Equal(t, "end_turn", turn.StopReason)
}

func TestSendTurn_ToolUse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"content":[
			{"type":"text","text":"Let me look."},
			{"type":"tool_use","id":"toolu_1","name":"run_readonly_command","input":{"command":"ls","args":["-la"]}}
		],"stop_reason":"tool_use"}`)
	})

	turn, err := p.SendTurn(context.Background(), models.NewConversation("sys", "req"), []tool.Declaration{testTool})

	require.NoError(t, err)
	assert.Equal(t, "Let me look.", turn.Text)
	assert.Equal(t, []models.ToolCall{
		{ID: "toolu_1", Name: "run_readonly_command", Arguments: `{"command":"ls","args":["-la"]}`},
	}, turn.ToolCalls)
}

func TestSendTurn_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"Overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, provider.ErrHTTPStatus},
		{"Malformed", 200, `not json`, provider.ErrMalformedResponse},
		{"NoContent", 200, `{"content":[]}`, provider.ErrEmptyResponse},
		{"BlankText", 200, `{"content":[{"type":"text","text":"   "}]}`, provider.ErrEmptyResponse},
		{"ToolUseWithoutID", 200, `{"content":[{"type":"tool_use","name":"run_readonly_command","input":{}}]}`, provider.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := p.SendTurn(context.Background(), models.NewConversation("sys", "req"), nil)

			var te *provider.TransportError
			require.ErrorAs(t, err, &te)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSendTurn_OverloadedMessage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
	})

	_, err := p.SendTurn(context.Background(), models.NewConversation("sys", "req"), nil)

	require.Error(t, err)
	assert.Equal(t, "anthropic_messages: HTTP 529: Overloaded", err.Error())
	assert.True(t, provider.IsRetryable(err))
}

func TestSendTurn_UsesProfileMaxTokens(t *testing.T) {
	var got anthropicsdk.MessageNewParams
	client := &MockAnthropicClient{
		NewMessageFunc: func(ctx context.Context, params anthropicsdk.MessageNewParams) (*anthropicsdk.Message, error) {
			got = params
			return &anthropicsdk.Message{Content: []anthropicsdk.ContentBlockUnion{{Type: "text", Text: "pwd"}}}, nil
		},
	}
	profile := newTestProfile("")
	profile.MaxTokens = 256
	profile.Temperature = 0.5

	turn, err := New(client, profile, nil).SendTurn(context.Background(), models.NewConversation("sys", "req"), nil)

	require.NoError(t, err)
	assert.Equal(t, "pwd", turn.Text)
	assert.Equal(t, int64(256), got.MaxTokens)
	assert.Equal(t, 0.5, got.Temperature.Value)
	assert.Equal(t, anthropicsdk.Model("claude-test"), got.Model)
}

func TestToMessages_GroupsToolResults(t *testing.T) {
	conv := models.NewConversation("sys", "req")
	require.NoError(t, conv.AppendAssistant("", []models.ToolCall{
		{ID: "toolu_1", Name: "run_readonly_command", Arguments: `{"command":"ls"}`},
		{ID: "toolu_2", Name: "run_readonly_command", Arguments: `not json`},
	}))
	require.NoError(t, conv.AppendToolResult(models.ToolResult{ID: "toolu_1", Content: "a\n", Status: models.ToolSucceeded}))
	require.NoError(t, conv.AppendToolResult(models.ToolResult{ID: "toolu_2", Content: "Permission Denied", Status: models.ToolDenied}))
	require.NoError(t, conv.AppendAssistant("find . -type f", nil))

	system, msgs := toMessages(conv.Turns())
	require.Len(t, system, 1)
	assert.Equal(t, "sys", system[0].Text)
	require.Len(t, msgs, 4)

	assert.Equal(t, anthropicsdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, "req", msgs[0].Content[0].OfText.Text)

	assert.Equal(t, anthropicsdk.MessageParamRoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Content, 2)
	assert.Equal(t, "toolu_1", msgs[1].Content[0].OfToolUse.ID)
	assert.Equal(t, json.RawMessage(`{"command":"ls"}`), msgs[1].Content[0].OfToolUse.Input)
	assert.Equal(t, json.RawMessage(`{}`), msgs[1].Content[1].OfToolUse.Input)

	assert.Equal(t, anthropicsdk.MessageParamRoleUser, msgs[2].Role)
	require.Len(t, msgs[2].Content, 2)
	first, second := msgs[2].Content[0].OfToolResult, msgs[2].Content[1].OfToolResult
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "toolu_1", first.ToolUseID)
	assert.False(t, first.IsError.Value)
	assert.Equal(t, "a\n", first.Content[0].OfText.Text)
	assert.Equal(t, "toolu_2", second.ToolUseID)
	assert.True(t, second.IsError.Value)

	assert.Equal(t, anthropicsdk.MessageParamRoleAssistant, msgs[3].Role)
	assert.Equal(t, "find . -type f", msgs[3].Content[0].OfText.Text)
}

func TestMapAnthropicError_Network(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mapAnthropicError(ctx, context.Canceled)

	assert.ErrorIs(t, err, provider.ErrNetwork)
	assert.False(t, provider.IsRetryable(err))
}
