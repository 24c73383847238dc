package service

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/config"
)

// Indexer keeps the vector collection in sync with the article store. The
// collection is a best-effort replica: indexing failures are logged and
// reported but never fail the caller, since the index can always be rebuilt
// with ReindexAll.
type Indexer struct {
	embedder       search.Embedder
	vectors        search.VectorStore
	embedMaxChars  int
	payloadSnippet int
	logger         *slog.Logger
}

// NewIndexer creates a new Indexer.
func NewIndexer(embedder search.Embedder, vectors search.VectorStore, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder:       embedder,
		vectors:        vectors,
		embedMaxChars:  config.DefaultEmbedMaxChars,
		payloadSnippet: config.DefaultPayloadSnippet,
		logger:         logger,
	}
}

// EnsureCollection makes sure the vector collection exists with the expected
// dimension.
func (ix *Indexer) EnsureCollection(ctx context.Context) error {
	return ix.vectors.EnsureCollection(ctx)
}

// UpsertArticle embeds the article and writes it to the vector collection.
// It reports success; failures are logged, not returned.
func (ix *Indexer) UpsertArticle(ctx context.Context, a article.Article) bool {
	vector, err := ix.embedder.Embed(ctx, ix.embeddingText(a))
	if err != nil {
		ix.logger.WarnContext(ctx, "embedding failed, article not indexed",
			"article_id", a.ID(), "url", a.URL(), "error", err)
		return false
	}

	if err := ix.vectors.Upsert(ctx, search.Point{
		ID:      uint64(a.ID()),
		Vector:  vector,
		Payload: ix.payloadFor(a),
	}); err != nil {
		ix.logger.WarnContext(ctx, "vector upsert failed",
			"article_id", a.ID(), "url", a.URL(), "error", err)
		return false
	}
	return true
}

// SearchSimilar returns the articles closest to the query text, best first.
// Any failure degrades to an empty result.
func (ix *Indexer) SearchSimilar(ctx context.Context, query string, limit int) []search.Match {
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}

	vector, err := ix.embedder.Embed(ctx, truncate(query, ix.embedMaxChars))
	if err != nil {
		ix.logger.WarnContext(ctx, "query embedding failed", "error", err)
		return nil
	}

	matches, err := ix.vectors.Query(ctx, vector, limit)
	if err != nil {
		ix.logger.WarnContext(ctx, "vector query failed", "error", err)
		return nil
	}
	return matches
}

// ReindexAll rebuilds the vector collection from every persisted article.
// It returns how many articles were indexed and how many failed.
func (ix *Indexer) ReindexAll(ctx context.Context, store article.Store) (int, int, error) {
	if err := ix.EnsureCollection(ctx); err != nil {
		return 0, 0, err
	}

	articles, err := store.All(ctx)
	if err != nil {
		return 0, 0, err
	}

	var indexed, failed int
	for _, a := range articles {
		if ctx.Err() != nil {
			return indexed, failed, ctx.Err()
		}
		if ix.UpsertArticle(ctx, a) {
			indexed++
		} else {
			failed++
		}
	}
	ix.logger.InfoContext(ctx, "reindex complete", "indexed", indexed, "failed", failed)
	return indexed, failed, nil
}

// embeddingText joins the title and body, bounded to the embedding input cap.
func (ix *Indexer) embeddingText(a article.Article) string {
	text := a.Title()
	if a.Snippet() != "" {
		text += "\n\n" + a.Snippet()
	}
	return truncate(text, ix.embedMaxChars)
}

func (ix *Indexer) payloadFor(a article.Article) search.Payload {
	var published string
	if at := a.PublishedAt(); at != nil {
		published = at.UTC().Format(time.RFC3339)
	}
	return search.Payload{
		Title:       a.Title(),
		URL:         a.URL(),
		Source:      a.Source(),
		PublishedAt: published,
		Snippet:     truncate(a.Snippet(), ix.payloadSnippet),
	}
}

// truncate cuts s to at most max bytes without splitting a rune, so the
// result stays valid UTF-8 for the embedding API.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
