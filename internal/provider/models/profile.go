package models

import (
	"fmt"
	"strings"
)

// Dialect names a provider wire protocol.
type Dialect string

const (
	DialectChatCompletions   Dialect = "chat_completions"
	DialectAnthropicMessages Dialect = "anthropic_messages"
	DialectGemini            Dialect = "gemini"
)

// Default base URLs. Gemini uses the SDK's endpoint when BaseURL is empty.
const (
	DefaultChatCompletionsBaseURL   = "https://api.openai.com/v1"
	DefaultAnthropicMessagesBaseURL = "https://api.anthropic.com"

	AnthropicVersion = "2023-06-01"
)

// ParseDialect accepts the canonical names plus a few common aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chat_completions", "chat-completions", "openai":
		return DialectChatCompletions, nil
	case "anthropic_messages", "anthropic-messages", "anthropic":
		return DialectAnthropicMessages, nil
	case "gemini", "google":
		return DialectGemini, nil
	}
	return "", fmt.Errorf("unknown dialect %q", s)
}

// DetectDialect infers the dialect from a base URL.
func DetectDialect(baseURL string) Dialect {
	if strings.Contains(strings.ToLower(baseURL), "anthropic.com") {
		return DialectAnthropicMessages
	}
	return DialectChatCompletions
}

// DefaultBaseURL returns the endpoint used when none is configured.
func DefaultBaseURL(d Dialect) string {
	switch d {
	case DialectAnthropicMessages:
		return DefaultAnthropicMessagesBaseURL
	case DialectChatCompletions:
		return DefaultChatCompletionsBaseURL
	}
	return ""
}

// AuthScheme says how the API key is attached to a request.
type AuthScheme string

const (
	AuthBearer AuthScheme = "bearer"
	AuthHeader AuthScheme = "header"
)

// Profile is the immutable description of one backend.
type Profile struct {
	Dialect Dialect
	BaseURL string
	APIKey  string
	Model   string

	Auth       AuthScheme
	AuthHeader string // header name when Auth is AuthHeader

	// ToolResultField is the key that carries a tool result back to the model:
	// "content" on a role:"tool" message, a "tool_result" block, or a
	// "functionResponse" part.
	ToolResultField string

	MaxTokens        int
	Temperature      float64
	MaxRetries       int
	MaxResponseBytes int64
}

// NewProfile fills the dialect-specific authentication and result shape.
// An empty baseURL becomes the dialect default.
func NewProfile(dialect Dialect, baseURL, apiKey, model string) Profile {
	if baseURL == "" {
		baseURL = DefaultBaseURL(dialect)
	}
	p := Profile{
		Dialect:          dialect,
		BaseURL:          strings.TrimRight(baseURL, "/"),
		APIKey:           apiKey,
		Model:            model,
		MaxTokens:        4096,
		MaxResponseBytes: 4 << 20,
	}
	switch dialect {
	case DialectChatCompletions:
		p.Auth = AuthBearer
		p.ToolResultField = "content"
	case DialectAnthropicMessages:
		p.Auth = AuthHeader
		p.AuthHeader = "x-api-key"
		p.ToolResultField = "tool_result"
	case DialectGemini:
		p.Auth = AuthHeader
		p.AuthHeader = "x-goog-api-key"
		p.ToolResultField = "functionResponse"
	}
	return p
}

// String hides the API key.
func (p Profile) String() string {
	return fmt.Sprintf("%s %s model=%s", p.Dialect, p.BaseURL, p.Model)
}
