package geoecon

import (
	"log/slog"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/application/service"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	appConfig config.AppConfig
	logger    *slog.Logger

	// Injectable infrastructure, mainly for tests. Nil fields are built
	// from appConfig.
	feeds       service.FeedFetcher
	extractor   service.TextExtractor
	embedder    search.Embedder
	generator   search.TextGenerator
	vectorStore search.VectorStore
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		appConfig: config.NewAppConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig replaces the whole application configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) { c.appConfig = cfg }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithFeedFetcher replaces the feed client.
func WithFeedFetcher(f service.FeedFetcher) Option {
	return func(c *clientConfig) { c.feeds = f }
}

// WithExtractor replaces the full-text extractor.
func WithExtractor(e service.TextExtractor) Option {
	return func(c *clientConfig) { c.extractor = e }
}

// WithEmbedder replaces the embedding provider.
func WithEmbedder(e search.Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithTextGenerator replaces the generation provider.
func WithTextGenerator(g search.TextGenerator) Option {
	return func(c *clientConfig) { c.generator = g }
}

// WithVectorStore replaces the vector store.
func WithVectorStore(v search.VectorStore) Option {
	return func(c *clientConfig) { c.vectorStore = v }
}
