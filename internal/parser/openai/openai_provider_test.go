package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediabrief/internal/config"
	"mediabrief/internal/domain"
	"mediabrief/internal/parser"
	"mediabrief/internal/parser/openai"
	"mediabrief/internal/port"
)

func newTestProvider(serverURL string) *openai.Provider {
	return openai.NewProviderWithEndpoint(&config.ParserProviderConfig{
		Provider:     "openai",
		APIKey:       "sk-test",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}, serverURL)
}

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		format := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", format["type"])

		messages := reqBody["messages"].([]interface{})
		parts := messages[0].(map[string]interface{})["content"].([]interface{})
		assert.Len(t, parts, 2)
		assert.Equal(t, "image_url", parts[0].(map[string]interface{})["type"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "chatcmpl-1",
			"model": "gpt-4o-2024-08-06",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]interface{}{"role": "assistant", "content": `{"placements":[]}`}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	resp, err := p.Complete(context.Background(), port.ModelRequest{
		Instruction: "extract",
		Images:      []domain.PageImage{{Number: 1, MimeType: "image/png", Data: []byte("png")}},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"placements":[]}`, resp.Text)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	assert.Equal(t, "openai", resp.Provider)
}

func TestOpenAIProvider_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), port.ModelRequest{Instruction: "x", Text: "y"})

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), port.ModelRequest{Instruction: "x", Text: "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
