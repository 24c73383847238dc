package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
)

// Config carries the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	// BaseURL overrides the API host. Empty means api.openai.com.
	BaseURL string
	// APIKey authenticates requests.
	APIKey string
	// EmbeddingModel names the embedding model.
	EmbeddingModel string
	// ChatModels is the generation priority list, tried in order.
	ChatModels []string
	// MaxRetries bounds embedding attempts for rate-limit failures.
	MaxRetries int
	// InitialDelay is the base pause between embedding retries. The pause
	// grows linearly with the attempt number.
	InitialDelay time.Duration
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// OpenAIProvider serves embeddings and chat completions. It implements both
// search.Embedder and search.TextGenerator.
type OpenAIProvider struct {
	client         *openai.Client
	embeddingModel string
	chatModels     []string
	maxRetries     int
	initialDelay   time.Duration
	log            *slog.Logger
}

// NewOpenAIProvider creates a provider from cfg.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	initialDelay := cfg.InitialDelay
	if initialDelay <= 0 {
		initialDelay = time.Second
	}
	chatModels := cfg.ChatModels
	if len(chatModels) == 0 {
		chatModels = []string{openai.GPT4oMini}
	}

	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(clientCfg),
		embeddingModel: cfg.EmbeddingModel,
		chatModels:     append([]string(nil), chatModels...),
		maxRetries:     maxRetries,
		initialDelay:   initialDelay,
		log:            slog.Default().With("component", "provider"),
	}
}

// Embed returns the embedding for text. Empty input fails without a network
// call. Rate-limit-class failures are retried with a linearly growing pause;
// other failures return immediately.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewError("embedding", 0, "empty input", nil)
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.embeddingModel),
		})
		if err == nil {
			if len(resp.Data) == 0 {
				return nil, NewError("embedding", 0, "empty embedding response", nil)
			}
			return resp.Data[0].Embedding, nil
		}

		if !IsRateLimitClass(err) {
			return nil, wrapError("embedding", err)
		}

		lastErr = err
		if attempt == p.maxRetries {
			break
		}

		delay := p.initialDelay * time.Duration(attempt)
		p.log.WarnContext(ctx, "embedding rate limited, retrying",
			"attempt", attempt, "delay", delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, wrapError("embedding", lastErr)
}

// Generate answers prompt with the first model in the priority list that
// succeeds. Quota, rate-limit and model-unavailable failures move on to the
// next model; anything else aborts.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (search.Completion, error) {
	for _, model := range p.chatModels {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err == nil {
			if len(resp.Choices) == 0 {
				return search.Completion{}, NewError("generation", 0, "empty completion response", nil)
			}
			return search.Completion{Text: resp.Choices[0].Message.Content, Model: model}, nil
		}

		if !isFallbackEligible(err) {
			return search.Completion{}, wrapError("generation", err)
		}
		p.log.WarnContext(ctx, "generation model unavailable, falling back",
			"model", model, "error", err)
	}
	return search.Completion{}, fmt.Errorf("%w: tried %d models", ErrModelsExhausted, len(p.chatModels))
}
