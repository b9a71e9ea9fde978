package readonly

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Cyclone1070/llmc/internal/orchestrator/models"
	"github.com/Cyclone1070/llmc/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	requests    []sandbox.Request
	ExecuteFunc func(ctx context.Context, req sandbox.Request) *sandbox.Result
}

func (m *mockExecutor) Execute(ctx context.Context, req sandbox.Request) *sandbox.Result {
	m.requests = append(m.requests, req)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return &sandbox.Result{ID: req.ID, Command: req.Command, Status: sandbox.StatusSucceeded, Output: "ok\n"}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Request
		wantErr bool
	}{
		{"CommandAndArgs", `{"command":"ls","args":["-la","/tmp"]}`, Request{Command: "ls", Args: []string{"-la", "/tmp"}}, false},
		{"ArgsOptional", `{"command":"pwd"}`, Request{Command: "pwd"}, false},
		{"ExtraKeysIgnored", `{"command":"ls","cwd":"/"}`, Request{Command: "ls"}, false},
		{"MissingCommand", `{"args":["-la"]}`, Request{}, true},
		{"Empty", ``, Request{}, true},
		{"NotJSON", `ls -la`, Request{}, true},
		{"ArgsNotArray", `{"command":"ls","args":"-la"}`, Request{}, true},
		{"CommandNotString", `{"command":["ls"]}`, Request{}, true},
		{"ArgNotString", `{"command":"ls","args":[1]}`, Request{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCall_Success(t *testing.T) {
	exec := &mockExecutor{}
	tl := New(exec, sandbox.DefaultAllowedCommands)

	got := tl.Call(context.Background(), models.ToolCall{ID: "call_1", Name: Name, Arguments: `{"command":"ls","args":["-la","/tmp"]}`})

	require.Len(t, exec.requests, 1)
	assert.Equal(t, sandbox.Request{ID: "call_1", Command: "ls", Args: []string{"-la", "/tmp"}}, exec.requests[0])
	assert.Equal(t, models.ToolResult{ID: "call_1", Name: Name, Content: "ok\n", Status: models.ToolSucceeded}, got)
}

func TestCall_BadArgumentsNeverReachSandbox(t *testing.T) {
	exec := &mockExecutor{}
	tl := New(exec, sandbox.DefaultAllowedCommands)

	got := tl.Call(context.Background(), models.ToolCall{ID: "call_1", Name: Name, Arguments: `{"args":`})

	assert.Empty(t, exec.requests)
	assert.Equal(t, models.ToolErrored, got.Status)
	assert.Contains(t, got.Content, "Error parsing arguments")
	assert.Equal(t, "call_1", got.ID)
}

func TestCall_MapsSandboxStatus(t *testing.T) {
	tests := []struct {
		status sandbox.Status
		want   models.ToolStatus
	}{
		{sandbox.StatusSucceeded, models.ToolSucceeded},
		{sandbox.StatusDenied, models.ToolDenied},
		{sandbox.StatusTimedOut, models.ToolTimedOut},
		{sandbox.StatusErrored, models.ToolErrored},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			exec := &mockExecutor{ExecuteFunc: func(_ context.Context, req sandbox.Request) *sandbox.Result {
				return &sandbox.Result{ID: req.ID, Command: req.Command, Status: tt.status, Output: "x", Truncated: true}
			}}
			got := New(exec, nil).Call(context.Background(), models.ToolCall{ID: "1", Arguments: `{"command":"ls"}`})
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestCall_DeniedWithRealExecutor(t *testing.T) {
	exec := sandbox.NewExecutor(sandbox.DefaultPolicy(), nil, nil)
	tl := New(exec, sandbox.DefaultAllowedCommands)

	got := tl.Call(context.Background(), models.ToolCall{ID: "call_9", Arguments: `{"command":"rm","args":["-rf","/"]}`})

	assert.Equal(t, models.ToolDenied, got.Status)
	assert.Equal(t, "Permission Denied: 'rm' is not in the allowed command list.", got.Content)
}

func TestDeclaration(t *testing.T) {
	decl := New(&mockExecutor{}, []string{"ls", "cat"}).Declaration()

	assert.Equal(t, Name, decl.Name)
	assert.Contains(t, decl.Description, "ls, cat.")

	raw, err := json.Marshal(decl.Parameters)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"command": {"type": "string", "description": "The command binary to run (e.g. \"ls\", \"grep\")"},
			"args": {"type": "array", "items": {"type": "string"}, "description": "Arguments to pass to the command"}
		},
		"required": ["command"]
	}`, string(raw))
}

func TestDescribe(t *testing.T) {
	tl := New(&mockExecutor{}, nil)

	assert.Equal(t, "ls -la /tmp", tl.Describe(models.ToolCall{Arguments: `{"command":"ls","args":["-la","/tmp"]}`}))
	assert.Equal(t, "pwd", tl.Describe(models.ToolCall{Arguments: `{"command":"pwd"}`}))
	assert.Equal(t, Name, tl.Describe(models.ToolCall{Arguments: `nope`}))
}
