// Package geoecon is the entry point for the geo-economy news analysis
// library: it ingests global economic and job market news, keeps a canonical
// article store, and serves semantic search and grounded question answering
// over it.
package geoecon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/application/service"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/infrastructure/extract"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/infrastructure/feed"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/infrastructure/persistence"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/infrastructure/provider"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/infrastructure/vector"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/config"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/database"
)

// ErrClientClosed indicates an operation was attempted on a closed Client.
var ErrClientClosed = service.ErrClientClosed

// Client is the main entry point for the library.
//
// Access services via struct fields:
//
//	client.Pipeline.Run(ctx)
//	client.Assistant.Ask(ctx, "what happened to tech hiring?")
//	client.Articles.All(ctx)
type Client struct {
	// Public service fields (direct access)
	Pipeline   *service.Pipeline
	Indexer    *service.Indexer
	Tagger     *service.Tagger
	Summarizer *service.Summarizer
	Assistant  *service.Assistant
	Articles   article.Store
	Topics     article.TopicStore

	db      database.Database
	cfg     config.AppConfig
	closers []io.Closer
	closed  atomic.Bool
	logger  *slog.Logger
}

// New creates a new Client with the given options. The database schema is
// migrated on creation; the vector collection is created lazily on the first
// ingestion or reindex.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	app := cfg.appConfig
	if err := app.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := app.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, app.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	articles := persistence.NewArticleStore(db)
	topics := persistence.NewTopicStore(db)
	summaries := persistence.NewSummaryStore(db)

	feeds := cfg.feeds
	if feeds == nil {
		feeds = feed.NewClient(app.Feed())
	}

	extractor := cfg.extractor
	if extractor == nil {
		extractor = extract.NewChain(app.Extract().MinWords(),
			extract.NewGooseStrategy(),
			extract.NewReadabilityStrategy(app.Extract().Timeout()),
			extract.NewHTMLArticleStrategy(
				&http.Client{Timeout: app.Extract().Timeout()},
				app.Feed().UserAgent()),
		)
	}

	embedder := cfg.embedder
	if embedder == nil {
		emb := app.Embedding()
		embedder = provider.NewOpenAIProvider(provider.Config{
			BaseURL:        emb.BaseURL(),
			APIKey:         emb.APIKey(),
			EmbeddingModel: emb.Model(),
			MaxRetries:     emb.MaxRetries(),
			InitialDelay:   emb.InitialDelay(),
			Timeout:        emb.Timeout(),
		})
	}

	generator := cfg.generator
	if generator == nil {
		chat := app.ChatEndpoint()
		generator = provider.NewOpenAIProvider(provider.Config{
			BaseURL:    chat.BaseURL(),
			APIKey:     chat.APIKey(),
			ChatModels: app.ChatModels(),
			MaxRetries: chat.MaxRetries(),
			Timeout:    chat.Timeout(),
		})
	}

	var closers []io.Closer
	vectors := cfg.vectorStore
	if vectors == nil {
		vcfg := app.Vector()
		store, err := vector.NewStore(vector.Config{
			Host:       vcfg.Host(),
			Port:       vcfg.Port(),
			APIKey:     vcfg.APIKey(),
			UseTLS:     vcfg.UseTLS(),
			Collection: vcfg.Collection(),
			Size:       uint64(vcfg.Size()),
		})
		if err != nil {
			errClose := db.Close()
			return nil, errors.Join(fmt.Errorf("vector store: %w", err), errClose)
		}
		vectors = store
		closers = append(closers, store)
	}

	indexer := service.NewIndexer(embedder, vectors, logger)
	tagger := service.NewTagger(topics, app.Keywords(), logger)
	pipeline := service.NewPipeline(feeds, extractor, articles, summaries, tagger, indexer,
		service.PipelineConfig{
			Keywords:        app.Keywords(),
			ChunkSize:       app.Feed().ChunkSize(),
			TopN:            app.TopN(),
			MinArticleWords: app.MinArticleWords(),
			Workers:         app.Extract().Workers(),
		}, logger)
	summarizer := service.NewSummarizer(summaries, generator, logger)
	assistant := service.NewAssistant(indexer, generator, app.SearchLimit(), logger)

	return &Client{
		Pipeline:   pipeline,
		Indexer:    indexer,
		Tagger:     tagger,
		Summarizer: summarizer,
		Assistant:  assistant,
		Articles:   articles,
		Topics:     topics,
		db:         db,
		cfg:        app,
		closers:    closers,
		logger:     logger,
	}, nil
}

// Ingest runs one full pipeline pass: fetch, dedup, rank, extract, persist,
// tag and index. A missing vector collection is created first; collection
// setup failure downgrades indexing to a no-op for the run instead of
// blocking ingestion.
func (c *Client) Ingest(ctx context.Context) (service.RunReport, error) {
	if c.closed.Load() {
		return service.RunReport{}, service.ErrClientClosed
	}

	if err := c.Indexer.EnsureCollection(ctx); err != nil {
		c.logger.Warn("vector collection unavailable, articles will not be indexed this run",
			slog.Any("error", err))
	}
	return c.Pipeline.Run(ctx)
}

// Reindex rebuilds the vector collection from every persisted article. It
// returns how many articles were indexed and how many failed.
func (c *Client) Reindex(ctx context.Context) (int, int, error) {
	if c.closed.Load() {
		return 0, 0, service.ErrClientClosed
	}
	return c.Indexer.ReindexAll(ctx, c.Articles)
}

// Summarize generates AI summaries for articles that still carry the
// provisional ingestion-time summary. It returns how many articles were
// summarized and how many failed.
func (c *Client) Summarize(ctx context.Context) (int, int, error) {
	if c.closed.Load() {
		return 0, 0, service.ErrClientClosed
	}
	return c.Summarizer.Run(ctx)
}

// Search returns the indexed articles most similar to the query text,
// best match first. A non-positive limit uses the configured default.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]search.Match, error) {
	if c.closed.Load() {
		return nil, service.ErrClientClosed
	}
	if limit <= 0 {
		limit = c.cfg.SearchLimit()
	}
	return c.Indexer.SearchSimilar(ctx, query, limit), nil
}

// Ask answers a question grounded on the most similar indexed articles.
func (c *Client) Ask(ctx context.Context, question string) (service.Answer, error) {
	if c.closed.Load() {
		return service.Answer{}, service.ErrClientClosed
	}
	return c.Assistant.Ask(ctx, question)
}

// SeedTopics pre-creates topics. With no names it seeds the configured
// keyword vocabulary. It returns how many topics were newly created.
func (c *Client) SeedTopics(ctx context.Context, names []string) (int, error) {
	if c.closed.Load() {
		return 0, service.ErrClientClosed
	}
	if len(names) == 0 {
		names = c.cfg.Keywords()
	}
	return c.Tagger.SeedTopics(ctx, names)
}

// Config returns the effective application configuration.
func (c *Client) Config() config.AppConfig { return c.cfg }

// Close releases the database and vector store connections. It is safe to
// call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// interface guard
var _ search.VectorStore = (*vector.Store)(nil)
