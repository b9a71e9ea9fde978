package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"chat_completions":   DialectChatCompletions,
		"openai":             DialectChatCompletions,
		"Anthropic":          DialectAnthropicMessages,
		"anthropic_messages": DialectAnthropicMessages,
		" gemini ":           DialectGemini,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("cohere")
	assert.Error(t, err)
}

func TestDetectDialect(t *testing.T) {
	assert.Equal(t, DialectAnthropicMessages, DetectDialect("https://api.anthropic.com"))
	assert.Equal(t, DialectChatCompletions, DetectDialect("https://api.openai.com/v1"))
	assert.Equal(t, DialectChatCompletions, DetectDialect("https://generativelanguage.googleapis.com/v1beta/openai"))
	assert.Equal(t, DialectChatCompletions, DetectDialect(""))
}

func TestNewProfile(t *testing.T) {
	t.Run("ChatCompletions", func(t *testing.T) {
		p := NewProfile(DialectChatCompletions, "", "k", "gpt-4o-mini")
		assert.Equal(t, DefaultChatCompletionsBaseURL, p.BaseURL)
		assert.Equal(t, AuthBearer, p.Auth)
		assert.Equal(t, "content", p.ToolResultField)
	})

	t.Run("Anthropic", func(t *testing.T) {
		p := NewProfile(DialectAnthropicMessages, "https://api.anthropic.com/", "k", "claude")
		assert.Equal(t, "https://api.anthropic.com", p.BaseURL)
		assert.Equal(t, AuthHeader, p.Auth)
		assert.Equal(t, "x-api-key", p.AuthHeader)
		assert.Equal(t, 4096, p.MaxTokens)
	})

	t.Run("StringHidesKey", func(t *testing.T) {
		p := NewProfile(DialectChatCompletions, "", "sk-secret", "m")
		assert.NotContains(t, p.String(), "sk-secret")
	})
}

func TestTransportError(t *testing.T) {
	err := &TransportError{Dialect: DialectChatCompletions, StatusCode: 500, Message: "boom", Retryable: true, Err: ErrHTTPStatus}

	assert.Equal(t, "chat_completions: HTTP 500: boom", err.Error())
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(errors.New("x")))

	assert.ErrorIs(t, Empty(DialectGemini), ErrEmptyResponse)
	assert.ErrorIs(t, Malformed(DialectGemini, errors.New("eof"), nil), ErrMalformedResponse)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet([]byte("short")))
	long := Snippet([]byte(strings.Repeat("a", 600)))
	assert.Len(t, long, maxBodyInError+3)
}

func TestRetryableStatus(t *testing.T) {
	assert.True(t, RetryableStatus(429))
	assert.True(t, RetryableStatus(503))
	assert.False(t, RetryableStatus(400))
	assert.False(t, RetryableStatus(401))
}
