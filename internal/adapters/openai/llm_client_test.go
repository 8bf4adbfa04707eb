package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iTschetter/PhishingDetection/internal/config"
)

func newTestServer(t *testing.T, status int, body string, seen *openai.ChatCompletionRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *OpenAIClient {
	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("openai.api_key", "test-key")
	cfg.Set("openai.base_url", srv.URL+"/v1")
	cfg.Set("openai.model_name", "gpt-test")

	client, err := NewFactory(cfg, zaptest.NewLogger(t)).CreateClient()
	require.NoError(t, err)
	return client
}

func TestGenerate(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": "{\"confidence\": 10, \"elements\": [], \"reasoning\": \"ok\"}"}}],
		"usage": {"prompt_tokens": 5, "completion_tokens": 5, "total_tokens": 10}
	}`, &seen)
	client := newTestClient(t, srv)

	reply, err := client.Generate(context.Background(), "analyze this")
	require.NoError(t, err)

	assert.Equal(t, `{"confidence": 10, "elements": [], "reasoning": "ok"}`, reply)
	assert.Equal(t, "gpt-test", client.Model())
	assert.Equal(t, "gpt-test", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "analyze this", seen.Messages[1].Content)
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, seen.ResponseFormat.Type)
}

func TestGenerate_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests,
		`{"error": {"message": "rate limited", "type": "rate_limit"}}`, nil)
	client := newTestClient(t, srv)

	_, err := client.Generate(context.Background(), "analyze this")
	assert.ErrorContains(t, err, "OpenAI")
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"id": "x", "choices": []}`, nil)
	client := newTestClient(t, srv)

	_, err := client.Generate(context.Background(), "analyze this")
	assert.ErrorContains(t, err, "empty response")
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	_, err := NewFactory(cfg, zaptest.NewLogger(t)).CreateClient()
	assert.Error(t, err)
}
