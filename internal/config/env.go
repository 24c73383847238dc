package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Field names map to
// environment variables without any prefix; nested structs use underscore
// delimiters (e.g. FEED_BASE_URL, EMBEDDING_MODEL).
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: DATA_DIR (default: ~/.geoecon)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///{data_dir}/geoecon.db)
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT"`

	// Keywords is the comma-separated topic vocabulary.
	// Env: KEYWORDS
	Keywords string `envconfig:"KEYWORDS"`

	// TopN is the ranking cutoff.
	// Env: TOP_N (default: 20)
	TopN int `envconfig:"TOP_N"`

	// MinArticleWords is the minimum acceptable body length in words.
	// Env: MIN_ARTICLE_WORDS (default: 300)
	MinArticleWords int `envconfig:"MIN_ARTICLE_WORDS"`

	// SearchLimit is the default similarity search result limit.
	// Env: SEARCH_LIMIT (default: 5)
	SearchLimit int `envconfig:"SEARCH_LIMIT"`

	// Feed configures the news feed provider.
	Feed FeedEnv `envconfig:"FEED"`

	// Extract configures full-text extraction.
	Extract ExtractEnv `envconfig:"EXTRACT"`

	// Embedding configures the embedding endpoint.
	Embedding EndpointEnv `envconfig:"EMBEDDING"`

	// Chat configures the generation endpoint.
	Chat ChatEnv `envconfig:"CHAT"`

	// Qdrant configures the vector store.
	Qdrant QdrantEnv `envconfig:"QDRANT"`
}

// FeedEnv holds environment configuration for the feed provider.
type FeedEnv struct {
	// BaseURL is the feed provider endpoint.
	// Env: FEED_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// MaxRecords is the maximum records per query.
	// Env: FEED_MAX_RECORDS (default: 50)
	MaxRecords int `envconfig:"MAX_RECORDS"`

	// Language is the source language filter ("all" disables it).
	// Env: FEED_LANGUAGE (default: en)
	Language string `envconfig:"LANGUAGE"`

	// TimeoutSeconds is the per-request timeout.
	// Env: FEED_TIMEOUT_SECONDS (default: 20)
	TimeoutSeconds float64 `envconfig:"TIMEOUT_SECONDS"`

	// PauseSeconds is the minimum delay between chunked requests.
	// Env: FEED_PAUSE_SECONDS (default: 0.6)
	PauseSeconds float64 `envconfig:"PAUSE_SECONDS"`

	// ChunkSize is the maximum keywords per query.
	// Env: FEED_CHUNK_SIZE (default: 5)
	ChunkSize int `envconfig:"CHUNK_SIZE"`

	// UserAgent is the client identifier header value.
	// Env: FEED_USER_AGENT
	UserAgent string `envconfig:"USER_AGENT"`
}

// ExtractEnv holds environment configuration for extraction.
type ExtractEnv struct {
	// MinWords is the acceptance threshold per strategy result.
	// Env: EXTRACT_MIN_WORDS (default: 100)
	MinWords int `envconfig:"MIN_WORDS"`

	// TimeoutSeconds is the per-page fetch timeout.
	// Env: EXTRACT_TIMEOUT_SECONDS (default: 200)
	TimeoutSeconds float64 `envconfig:"TIMEOUT_SECONDS"`

	// Workers is the bounded extraction pool size.
	// Env: EXTRACT_WORKERS (default: 4)
	Workers int `envconfig:"WORKERS"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the endpoint base URL.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// MaxRetries is the maximum retry count.
	// Env: *_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES"`

	// InitialDelaySeconds is the initial retry delay.
	// Env: *_INITIAL_DELAY_SECONDS (default: 2)
	InitialDelaySeconds float64 `envconfig:"INITIAL_DELAY_SECONDS"`

	// TimeoutSeconds is the request timeout.
	// Env: *_TIMEOUT_SECONDS (default: 60)
	TimeoutSeconds float64 `envconfig:"TIMEOUT_SECONDS"`
}

// ChatEnv holds environment configuration for the generation endpoint.
type ChatEnv struct {
	// BaseURL is the endpoint base URL.
	// Env: CHAT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// APIKey is the API key for authentication.
	// Env: CHAT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Models is the comma-separated model priority list.
	// Env: CHAT_MODELS
	Models string `envconfig:"MODELS"`

	// MaxRetries is the maximum retry count per model.
	// Env: CHAT_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES"`

	// TimeoutSeconds is the request timeout.
	// Env: CHAT_TIMEOUT_SECONDS (default: 60)
	TimeoutSeconds float64 `envconfig:"TIMEOUT_SECONDS"`
}

// QdrantEnv holds environment configuration for the vector store.
type QdrantEnv struct {
	// Host is the Qdrant hostname.
	// Env: QDRANT_HOST (default: localhost)
	Host string `envconfig:"HOST"`

	// Port is the Qdrant gRPC port.
	// Env: QDRANT_PORT (default: 6334)
	Port int `envconfig:"PORT"`

	// APIKey is the optional API key.
	// Env: QDRANT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// UseTLS enables TLS for the gRPC connection.
	// Env: QDRANT_USE_TLS (default: false)
	UseTLS bool `envconfig:"USE_TLS"`

	// Collection is the vector collection name.
	// Env: QDRANT_COLLECTION (default: job_market_news)
	Collection string `envconfig:"COLLECTION"`

	// VectorSize is the expected vector dimension.
	// Env: QDRANT_VECTOR_SIZE (default: 3072)
	VectorSize int `envconfig:"VECTOR_SIZE"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig, applying environment values
// over defaults. Zero values mean "not set" and keep the default.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	if e.Keywords != "" {
		cfg = cfg.Apply(WithKeywords(SplitList(e.Keywords)))
	}
	if e.TopN > 0 {
		cfg = cfg.Apply(WithTopN(e.TopN))
	}
	if e.MinArticleWords > 0 {
		cfg = cfg.Apply(WithMinArticleWords(e.MinArticleWords))
	}
	if e.SearchLimit > 0 {
		cfg = cfg.Apply(WithSearchLimit(e.SearchLimit))
	}

	cfg = cfg.Apply(WithFeed(e.Feed.toFeedConfig()))
	cfg = cfg.Apply(WithExtract(e.Extract.toExtractConfig()))
	cfg = cfg.Apply(WithEmbedding(e.Embedding.toEndpoint(DefaultEmbeddingModel)))
	cfg = cfg.Apply(WithChatEndpoint(e.Chat.toEndpoint()))
	if e.Chat.Models != "" {
		cfg = cfg.Apply(WithChatModels(SplitList(e.Chat.Models)))
	}
	cfg = cfg.Apply(WithVector(e.Qdrant.toVectorConfig()))

	return cfg
}

func (f FeedEnv) toFeedConfig() FeedConfig {
	cfg := NewFeedConfig()
	if f.BaseURL != "" {
		cfg.baseURL = f.BaseURL
	}
	if f.MaxRecords > 0 {
		cfg.maxRecords = f.MaxRecords
	}
	if f.Language != "" {
		cfg.language = f.Language
	}
	if f.TimeoutSeconds > 0 {
		cfg.timeout = secondsToDuration(f.TimeoutSeconds)
	}
	if f.PauseSeconds > 0 {
		cfg.pause = secondsToDuration(f.PauseSeconds)
	}
	if f.ChunkSize > 0 {
		cfg.chunkSize = f.ChunkSize
	}
	if f.UserAgent != "" {
		cfg.userAgent = f.UserAgent
	}
	return cfg
}

func (x ExtractEnv) toExtractConfig() ExtractConfig {
	cfg := NewExtractConfig()
	if x.MinWords > 0 {
		cfg.minWords = x.MinWords
	}
	if x.TimeoutSeconds > 0 {
		cfg.timeout = secondsToDuration(x.TimeoutSeconds)
	}
	if x.Workers > 0 {
		cfg.workers = x.Workers
	}
	return cfg
}

func (e EndpointEnv) toEndpoint(defaultModel string) Endpoint {
	cfg := NewEndpoint()
	cfg.model = defaultModel
	if e.BaseURL != "" {
		cfg.baseURL = e.BaseURL
	}
	if e.Model != "" {
		cfg.model = e.Model
	}
	if e.APIKey != "" {
		cfg.apiKey = e.APIKey
	}
	if e.MaxRetries > 0 {
		cfg.maxRetries = e.MaxRetries
	}
	if e.InitialDelaySeconds > 0 {
		cfg.initialDelay = secondsToDuration(e.InitialDelaySeconds)
	}
	if e.TimeoutSeconds > 0 {
		cfg.timeout = secondsToDuration(e.TimeoutSeconds)
	}
	return cfg
}

func (c ChatEnv) toEndpoint() Endpoint {
	cfg := NewEndpoint()
	cfg.model = ""
	if c.BaseURL != "" {
		cfg.baseURL = c.BaseURL
	}
	if c.APIKey != "" {
		cfg.apiKey = c.APIKey
	}
	if c.MaxRetries > 0 {
		cfg.maxRetries = c.MaxRetries
	}
	if c.TimeoutSeconds > 0 {
		cfg.timeout = secondsToDuration(c.TimeoutSeconds)
	}
	return cfg
}

func (q QdrantEnv) toVectorConfig() VectorConfig {
	cfg := NewVectorConfig()
	if q.Host != "" {
		cfg.host = q.Host
	}
	if q.Port > 0 {
		cfg.port = q.Port
	}
	if q.APIKey != "" {
		cfg.apiKey = q.APIKey
	}
	cfg.useTLS = q.UseTLS
	if q.Collection != "" {
		cfg.collection = q.Collection
	}
	if q.VectorSize > 0 {
		cfg.size = q.VectorSize
	}
	return cfg
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
