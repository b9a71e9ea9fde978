package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	orchmodels "github.com/Cyclone1070/llmc/internal/orchestrator/models"
	"github.com/Cyclone1070/llmc/internal/provider/anthropic"
	"github.com/Cyclone1070/llmc/internal/provider/gemini"
	"github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/Cyclone1070/llmc/internal/provider/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubGemini struct{}

func (stubGemini) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, nil
}

func TestNew_DispatchesOnDialect(t *testing.T) {
	ctx := context.Background()

	p, err := New(ctx, models.NewProfile(models.DialectChatCompletions, "", "k", "m"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	p, err = New(ctx, models.NewProfile(models.DialectAnthropicMessages, "", "k", "m"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Provider{}, p)
	assert.Equal(t, models.DefaultAnthropicMessagesBaseURL, p.Profile().BaseURL)

	p, err = New(ctx, models.NewProfile(models.DialectGemini, "", "k", "m"), Options{GeminiClient: stubGemini{}})
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiProvider{}, p)
}

func TestNew_UnknownDialect(t *testing.T) {
	_, err := New(context.Background(), models.Profile{Dialect: "carrier_pigeon"}, Options{})
	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestNew_OpenAISendsOneRequestByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"try later"}}`))
	}))
	defer srv.Close()

	p, err := New(context.Background(), models.NewProfile(models.DialectChatCompletions, srv.URL, "k", "m"), Options{})
	require.NoError(t, err)

	_, err = p.SendTurn(context.Background(), orchmodels.NewConversation("sys", "req"), nil)

	var te *models.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 503, te.StatusCode)
	assert.Equal(t, "try later", te.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNew_AnthropicRetriesWhenEnabled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ls"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	profile := models.NewProfile(models.DialectAnthropicMessages, srv.URL, "k", "m")
	profile.MaxRetries = 1
	p, err := New(context.Background(), profile, Options{})
	require.NoError(t, err)

	turn, err := p.SendTurn(context.Background(), orchmodels.NewConversation("sys", "req"), nil)

	require.NoError(t, err)
	assert.Equal(t, "ls", turn.Text)
	assert.Equal(t, int32(2), calls.Load())
}
