package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(Config{
		BaseURL:        srv.URL + "/v1",
		APIKey:         "test-key",
		EmbeddingModel: "text-embedding-3-large",
		ChatModels:     []string{"gpt-4o-mini", "gpt-4o"},
		MaxRetries:     3,
		InitialDelay:   time.Millisecond,
	})
}

func writeEmbedding(w http.ResponseWriter, vec []float32) {
	resp := openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: vec}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeCompletion(w http.ResponseWriter, content string) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "invalid_request_error"},
	})
}

func TestEmbed(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeEmbedding(w, []float32{0.1, 0.2, 0.3})
	})

	vec, err := p.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedRetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeAPIError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		writeEmbedding(w, []float32{1})
	})

	vec, err := p.Embed(context.Background(), "retry me")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, int64(3), calls.Load())
}

func TestEmbedExhaustsRetries(t *testing.T) {
	var calls atomic.Int64
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeAPIError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})

	_, err := p.Embed(context.Background(), "never works")
	require.Error(t, err)
	assert.Equal(t, int64(3), calls.Load())

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode())
}

func TestEmbedDoesNotRetryAuthFailure(t *testing.T) {
	var calls atomic.Int64
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeAPIError(w, http.StatusUnauthorized, "invalid api key")
	})

	_, err := p.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load(), "auth failures must not be retried")
}

func TestEmbedEmptyInputSkipsRequest(t *testing.T) {
	var calls atomic.Int64
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEmbedding(w, []float32{1})
	})

	_, err := p.Embed(context.Background(), "   \n\t")
	require.Error(t, err)
	assert.Equal(t, int64(0), calls.Load(), "empty input must never reach the API")
}

func TestGenerate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "the answer")
	})

	out, err := p.Generate(context.Background(), "a question")
	require.NoError(t, err)
	assert.Equal(t, "the answer", out.Text)
	assert.Equal(t, "gpt-4o-mini", out.Model)
}

func TestGenerateFallsBackOnQuota(t *testing.T) {
	var models []string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		if req.Model == "gpt-4o-mini" {
			writeAPIError(w, http.StatusTooManyRequests, "insufficient_quota")
			return
		}
		writeCompletion(w, "from fallback")
	})

	out, err := p.Generate(context.Background(), "a question")
	require.NoError(t, err)
	assert.Equal(t, "from fallback", out.Text)
	assert.Equal(t, "gpt-4o", out.Model, "the completion must name the model that served it")
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o"}, models)
}

func TestGenerateFallsBackOnUnknownModel(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model == "gpt-4o-mini" {
			writeAPIError(w, http.StatusNotFound, "The model does not exist")
			return
		}
		writeCompletion(w, "ok")
	})

	out, err := p.Generate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
}

func TestGenerateModelsExhausted(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusTooManyRequests, "insufficient_quota")
	})

	_, err := p.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelsExhausted))
}

func TestGenerateAbortsOnHardFailure(t *testing.T) {
	var calls atomic.Int64
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeAPIError(w, http.StatusBadRequest, "bad request body")
	})

	_, err := p.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrModelsExhausted))
	assert.Equal(t, int64(1), calls.Load(), "hard failures must not fall through the model list")
}

func TestIsRateLimitClass(t *testing.T) {
	assert.True(t, IsRateLimitClass(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsRateLimitClass(errors.New("You exceeded your current quota")))
	assert.False(t, IsRateLimitClass(errors.New("connection refused")))
}

func TestErrorMessage(t *testing.T) {
	err := NewError("embedding", 429, "slow down", nil)
	assert.True(t, strings.Contains(err.Error(), "embedding"))
	assert.True(t, strings.Contains(err.Error(), "429"))
}
