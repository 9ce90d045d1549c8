package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.APIKey = "test-key"
	cfg.Model = "test-model"
	return cfg
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model": "test-model",
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestOpenAIClient_Complete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "make an outline", req.Messages[0].Content)
		assert.Equal(t, 0.3, req.Temperature)

		chatReply(w, `{"ok":true}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(srv.URL))
	resp, err := client.Complete(context.Background(), Request{
		Task:   TaskModuleQuiz,
		Prompt: "make an outline",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, "test-model", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOpenAIClient_Complete_TemperatureOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.9, req.Temperature)
		assert.Equal(t, 42, req.MaxTokens)
		chatReply(w, "ok")
	}))
	defer srv.Close()

	temp, maxTok := 0.9, 42
	_, err := NewOpenAIClient(testConfig(srv.URL)).Complete(context.Background(), Request{
		Task:        TaskOutline,
		Prompt:      "x",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)
}

func TestOpenAIClient_Complete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		chatReply(w, "late")
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.Tasks = map[TaskType]TaskConfig{}

	_, err := NewOpenAIClient(cfg).Complete(context.Background(), Request{Task: TaskOutline, Prompt: "x"})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsRetryable(err))
}

func TestOpenAIClient_Complete_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient(testConfig(srv.URL)).Complete(context.Background(), Request{Task: TaskOutline, Prompt: "x"})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Contains(t, pe.Body, "bad key")
	assert.False(t, IsRetryable(err))
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient(testConfig(srv.URL)).Complete(context.Background(), Request{Task: TaskOutline, Prompt: "x"})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOpenAIClient_Complete_MissingAPIKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.APIKey = ""

	_, err := NewOpenAIClient(cfg).Complete(context.Background(), Request{Task: TaskOutline, Prompt: "x"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, IsRetryable(err))
}

func TestProviderError_Retryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{500, true},
		{502, true},
		{503, true},
		{429, true},
		{408, true},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, (&ProviderError{StatusCode: tt.status}).Retryable(), "status %d", tt.status)
	}
}
