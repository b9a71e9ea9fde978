package models

// Role tags the variant of a Turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall represents a structured tool invocation from the model.
// Arguments holds the JSON text exactly as the provider sent it and is untrusted.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolStatus classifies how a tool call was resolved.
type ToolStatus string

const (
	ToolSucceeded ToolStatus = "succeeded"
	ToolDenied    ToolStatus = "denied"
	ToolTimedOut  ToolStatus = "timed_out"
	ToolErrored   ToolStatus = "errored"
)

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	ID        string // Matches ToolCall.ID
	Name      string // Tool name
	Content   string // Text shown to the model
	Status    ToolStatus
	Truncated bool
}

// Turn is one entry of the conversation log. Which fields are meaningful
// depends on Role:
//
//	System, User: Text
//	Assistant:    Text and/or ToolCalls
//	Tool:         Result
type Turn struct {
	Role      Role
	Text      string
	ToolCalls []ToolCall
	Result    *ToolResult
}
