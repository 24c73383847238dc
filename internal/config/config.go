// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel        = "INFO"
	DefaultFeedBaseURL     = "https://api.gdeltproject.org/api/v2/doc/doc"
	DefaultFeedMaxRecords  = 50
	DefaultFeedLanguage    = "en"
	DefaultFeedTimeout     = 20 * time.Second
	DefaultFeedPause       = 600 * time.Millisecond
	DefaultFeedChunkSize   = 5
	DefaultFeedMaxRetries  = 3
	DefaultFeedRetryDelay  = 4 * time.Second
	DefaultFeedRetryCap    = 10 * time.Second
	DefaultTopN            = 20
	DefaultMinArticleWords = 300
	DefaultExtractMinWords = 100
	DefaultExtractTimeout  = 200 * time.Second
	DefaultExtractWorkers  = 4
	DefaultTitleMaxLen     = 300
	DefaultUserAgent       = "geo-econ-fetcher/1.0 (+https://example.com)"
	DefaultCollectionName  = "job_market_news"
	DefaultVectorSize      = 3072
	DefaultEmbeddingModel  = "text-embedding-3-large"
	DefaultEmbedMaxChars   = 8000
	DefaultEmbedMaxRetries = 3
	DefaultEmbedRetryDelay = 2 * time.Second
	DefaultPayloadSnippet  = 1000
	DefaultSearchLimit     = 5
	DefaultQdrantHost      = "localhost"
	DefaultQdrantPort      = 6334
)

// DefaultKeywords is the built-in topic vocabulary used for query building,
// ranking and tagging when none is configured.
var DefaultKeywords = []string{
	"inflation", "gdp", "recession", "oil", "sanction", "trade", "tariff",
	"currency", "layoffs", "unemployment", "economy", "ai", "company",
	"war", "conflict", "sports",
}

// DefaultChatModels is the generation model priority list, cheap to strong.
var DefaultChatModels = []string{"gpt-4o-mini", "gpt-4o"}

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// FeedConfig configures the news feed provider client.
type FeedConfig struct {
	baseURL    string
	maxRecords int
	language   string
	timeout    time.Duration
	pause      time.Duration
	chunkSize  int
	maxRetries int
	retryDelay time.Duration
	retryCap   time.Duration
	userAgent  string
}

// NewFeedConfig creates a FeedConfig with defaults.
func NewFeedConfig() FeedConfig {
	return FeedConfig{
		baseURL:    DefaultFeedBaseURL,
		maxRecords: DefaultFeedMaxRecords,
		language:   DefaultFeedLanguage,
		timeout:    DefaultFeedTimeout,
		pause:      DefaultFeedPause,
		chunkSize:  DefaultFeedChunkSize,
		maxRetries: DefaultFeedMaxRetries,
		retryDelay: DefaultFeedRetryDelay,
		retryCap:   DefaultFeedRetryCap,
		userAgent:  DefaultUserAgent,
	}
}

// BaseURL returns the feed provider endpoint.
func (f FeedConfig) BaseURL() string { return f.baseURL }

// MaxRecords returns the maximum records requested per query.
func (f FeedConfig) MaxRecords() int { return f.maxRecords }

// Language returns the source language filter ("all" disables it).
func (f FeedConfig) Language() string { return f.language }

// Timeout returns the per-request timeout.
func (f FeedConfig) Timeout() time.Duration { return f.timeout }

// Pause returns the minimum delay between chunked feed requests.
func (f FeedConfig) Pause() time.Duration { return f.pause }

// ChunkSize returns the maximum keywords per provider query.
func (f FeedConfig) ChunkSize() int { return f.chunkSize }

// MaxRetries returns the retry attempt budget for transient failures.
func (f FeedConfig) MaxRetries() int { return f.maxRetries }

// RetryDelay returns the initial retry backoff delay.
func (f FeedConfig) RetryDelay() time.Duration { return f.retryDelay }

// RetryCap returns the upper bound on the backoff delay.
func (f FeedConfig) RetryCap() time.Duration { return f.retryCap }

// UserAgent returns the descriptive client identifier header value.
func (f FeedConfig) UserAgent() string { return f.userAgent }

// FeedOption mutates a FeedConfig under construction.
type FeedOption func(*FeedConfig)

// NewFeedConfigWithOptions creates a FeedConfig with defaults and options.
func NewFeedConfigWithOptions(opts ...FeedOption) FeedConfig {
	cfg := NewFeedConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFeedBaseURL overrides the feed provider endpoint.
func WithFeedBaseURL(u string) FeedOption {
	return func(f *FeedConfig) { f.baseURL = u }
}

// WithFeedMaxRecords overrides the per-query record cap.
func WithFeedMaxRecords(n int) FeedOption {
	return func(f *FeedConfig) { f.maxRecords = n }
}

// WithFeedLanguage overrides the source language filter.
func WithFeedLanguage(lang string) FeedOption {
	return func(f *FeedConfig) { f.language = lang }
}

// WithFeedPause overrides the delay between chunked requests.
func WithFeedPause(d time.Duration) FeedOption {
	return func(f *FeedConfig) { f.pause = d }
}

// WithFeedRetry overrides the retry budget and backoff bounds.
func WithFeedRetry(maxRetries int, delay, cap time.Duration) FeedOption {
	return func(f *FeedConfig) {
		f.maxRetries = maxRetries
		f.retryDelay = delay
		f.retryCap = cap
	}
}

// ExtractConfig configures full-text extraction.
type ExtractConfig struct {
	minWords int
	timeout  time.Duration
	workers  int
}

// NewExtractConfig creates an ExtractConfig with defaults.
func NewExtractConfig() ExtractConfig {
	return ExtractConfig{
		minWords: DefaultExtractMinWords,
		timeout:  DefaultExtractTimeout,
		workers:  DefaultExtractWorkers,
	}
}

// MinWords returns the word count a strategy result must reach to be accepted.
func (e ExtractConfig) MinWords() int { return e.minWords }

// Timeout returns the per-page fetch timeout.
func (e ExtractConfig) Timeout() time.Duration { return e.timeout }

// Workers returns the size of the bounded extraction worker pool.
func (e ExtractConfig) Workers() int { return e.workers }

// Endpoint configures an OpenAI-compatible AI endpoint.
type Endpoint struct {
	baseURL      string
	model        string
	apiKey       string
	maxRetries   int
	initialDelay time.Duration
	timeout      time.Duration
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		model:        DefaultEmbeddingModel,
		maxRetries:   DefaultEmbedMaxRetries,
		initialDelay: DefaultEmbedRetryDelay,
		timeout:      60 * time.Second,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// VectorConfig configures the vector collection.
type VectorConfig struct {
	host       string
	port       int
	apiKey     string
	useTLS     bool
	collection string
	size       int
}

// NewVectorConfig creates a VectorConfig with defaults.
func NewVectorConfig() VectorConfig {
	return VectorConfig{
		host:       DefaultQdrantHost,
		port:       DefaultQdrantPort,
		collection: DefaultCollectionName,
		size:       DefaultVectorSize,
	}
}

// Host returns the vector store hostname.
func (v VectorConfig) Host() string { return v.host }

// Port returns the vector store gRPC port.
func (v VectorConfig) Port() int { return v.port }

// APIKey returns the optional vector store API key.
func (v VectorConfig) APIKey() string { return v.apiKey }

// UseTLS reports whether the connection is encrypted.
func (v VectorConfig) UseTLS() bool { return v.useTLS }

// Collection returns the collection name.
func (v VectorConfig) Collection() string { return v.collection }

// Size returns the configured vector dimension.
func (v VectorConfig) Size() int { return v.size }

// AppConfig is the immutable application configuration.
type AppConfig struct {
	dataDir         string
	dbURL           string
	logLevel        string
	logFormat       LogFormat
	keywords        []string
	topN            int
	minArticleWords int
	searchLimit     int
	feed            FeedConfig
	extract         ExtractConfig
	embedding       Endpoint
	chatEndpoint    Endpoint
	chatModels      []string
	vector          VectorConfig
}

// NewAppConfig creates an AppConfig with all defaults applied.
func NewAppConfig() AppConfig {
	return AppConfig{
		dataDir:         DefaultDataDir(),
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatPretty,
		keywords:        append([]string(nil), DefaultKeywords...),
		topN:            DefaultTopN,
		minArticleWords: DefaultMinArticleWords,
		searchLimit:     DefaultSearchLimit,
		feed:            NewFeedConfig(),
		extract:         NewExtractConfig(),
		embedding:       NewEndpoint(),
		chatEndpoint:    NewEndpoint(),
		chatModels:      append([]string(nil), DefaultChatModels...),
		vector:          NewVectorConfig(),
	}
}

// DefaultDataDir returns the default data directory (~/.geoecon).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geoecon"
	}
	return filepath.Join(home, ".geoecon")
}

// DataDir returns the data directory.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL, defaulting to a SQLite file
// under the data directory when unset.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return "sqlite:///" + filepath.Join(c.dataDir, "geoecon.db")
}

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Keywords returns a copy of the topic vocabulary.
func (c AppConfig) Keywords() []string {
	result := make([]string, len(c.keywords))
	copy(result, c.keywords)
	return result
}

// TopN returns the ranking cutoff.
func (c AppConfig) TopN() int { return c.topN }

// MinArticleWords returns the minimum acceptable body length in words.
func (c AppConfig) MinArticleWords() int { return c.minArticleWords }

// SearchLimit returns the default similarity search result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// Feed returns the feed provider configuration.
func (c AppConfig) Feed() FeedConfig { return c.feed }

// Extract returns the extraction configuration.
func (c AppConfig) Extract() ExtractConfig { return c.extract }

// Embedding returns the embedding endpoint configuration.
func (c AppConfig) Embedding() Endpoint { return c.embedding }

// ChatEndpoint returns the generation endpoint configuration.
func (c AppConfig) ChatEndpoint() Endpoint { return c.chatEndpoint }

// ChatModels returns the generation model priority list, cheap to strong.
func (c AppConfig) ChatModels() []string {
	result := make([]string, len(c.chatModels))
	copy(result, c.chatModels)
	return result
}

// Vector returns the vector store configuration.
func (c AppConfig) Vector() VectorConfig { return c.vector }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o750)
}

// AppConfigOption mutates an AppConfig during construction.
type AppConfigOption func(*AppConfig)

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.dataDir = dir }
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithKeywords replaces the topic vocabulary.
func WithKeywords(keywords []string) AppConfigOption {
	return func(c *AppConfig) { c.keywords = append([]string(nil), keywords...) }
}

// WithTopN sets the ranking cutoff.
func WithTopN(n int) AppConfigOption {
	return func(c *AppConfig) { c.topN = n }
}

// WithMinArticleWords sets the minimum body length in words.
func WithMinArticleWords(n int) AppConfigOption {
	return func(c *AppConfig) { c.minArticleWords = n }
}

// WithSearchLimit sets the default similarity search limit.
func WithSearchLimit(n int) AppConfigOption {
	return func(c *AppConfig) { c.searchLimit = n }
}

// WithFeed replaces the feed configuration.
func WithFeed(f FeedConfig) AppConfigOption {
	return func(c *AppConfig) { c.feed = f }
}

// WithExtract replaces the extraction configuration.
func WithExtract(e ExtractConfig) AppConfigOption {
	return func(c *AppConfig) { c.extract = e }
}

// WithEmbedding replaces the embedding endpoint configuration.
func WithEmbedding(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.embedding = e }
}

// WithChatEndpoint replaces the generation endpoint configuration.
func WithChatEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.chatEndpoint = e }
}

// WithChatModels replaces the generation model priority list.
func WithChatModels(models []string) AppConfigOption {
	return func(c *AppConfig) { c.chatModels = append([]string(nil), models...) }
}

// WithVector replaces the vector store configuration.
func WithVector(v VectorConfig) AppConfigOption {
	return func(c *AppConfig) { c.vector = v }
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewAppConfigWithOptions creates an AppConfig with defaults and options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// LogAttrs returns structured attributes describing the effective config,
// with secrets masked, for a single startup log line.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("feed_base_url", c.feed.baseURL),
		slog.Int("feed_max_records", c.feed.maxRecords),
		slog.Int("top_n", c.topN),
		slog.Int("min_article_words", c.minArticleWords),
		slog.Int("keywords", len(c.keywords)),
		slog.String("collection", c.vector.collection),
		slog.Int("vector_size", c.vector.size),
		slog.String("embedding_model", c.embedding.model),
	}
}

func (c AppConfig) maskedDBURL() string {
	url := c.DBURL()
	if at := strings.LastIndex(url, "@"); at >= 0 {
		if scheme := strings.Index(url, "://"); scheme >= 0 {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	return url
}

// ParseLogFormat converts a string into a LogFormat, defaulting to pretty.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case string(LogFormatJSON):
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Validate checks invariants that would otherwise surface deep inside the
// pipeline as confusing failures.
func (c AppConfig) Validate() error {
	if c.topN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.topN)
	}
	if c.feed.chunkSize <= 0 {
		return fmt.Errorf("feed chunk size must be positive, got %d", c.feed.chunkSize)
	}
	if c.vector.size <= 0 {
		return fmt.Errorf("vector size must be positive, got %d", c.vector.size)
	}
	return nil
}
