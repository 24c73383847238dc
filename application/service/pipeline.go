// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/feed"
)

// FeedFetcher retrieves raw article candidates for one feed query.
type FeedFetcher interface {
	FetchArticles(ctx context.Context, query string) ([]article.Raw, error)
}

// TextExtractor retrieves the full body text for an article URL. An empty
// result means no strategy produced an acceptable body.
type TextExtractor interface {
	ExtractFullText(ctx context.Context, pageURL string) string
}

// PipelineConfig holds the tunable pipeline parameters.
type PipelineConfig struct {
	// Keywords is the topic vocabulary driving queries, ranking and tags.
	Keywords []string
	// ChunkSize is the maximum keywords per feed query.
	ChunkSize int
	// TopN is the ranking cutoff.
	TopN int
	// MinArticleWords is the body length floor for persisting an article.
	MinArticleWords int
	// Workers bounds concurrent candidate processing.
	Workers int
}

// RunReport summarizes one ingestion run.
type RunReport struct {
	fetched    int
	candidates int
	saved      int
	updated    int
	skipped    int
	indexed    int
	failures   int
}

// Fetched returns how many raw records all feed queries returned.
func (r RunReport) Fetched() int { return r.fetched }

// Candidates returns how many records survived dedup and ranking.
func (r RunReport) Candidates() int { return r.candidates }

// Saved returns how many articles were newly created.
func (r RunReport) Saved() int { return r.saved }

// Updated returns how many existing articles were refreshed.
func (r RunReport) Updated() int { return r.updated }

// Skipped returns how many candidates were dropped for thin content.
func (r RunReport) Skipped() int { return r.skipped }

// Indexed returns how many articles reached the vector collection.
func (r RunReport) Indexed() int { return r.indexed }

// Failures returns how many candidates or queries failed outright.
func (r RunReport) Failures() int { return r.failures }

// Pipeline orchestrates one ingestion run: query the feed, dedup and rank
// the candidates, extract full text where the feed snippet is thin, then
// persist, tag and index each survivor.
type Pipeline struct {
	feeds     FeedFetcher
	extractor TextExtractor
	articles  article.Store
	summaries article.SummaryStore
	tagger    *Tagger
	indexer   *Indexer
	cfg       PipelineConfig
	logger    *slog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	feeds FeedFetcher,
	extractor TextExtractor,
	articles article.Store,
	summaries article.SummaryStore,
	tagger *Tagger,
	indexer *Indexer,
	cfg PipelineConfig,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pipeline{
		feeds:     feeds,
		extractor: extractor,
		articles:  articles,
		summaries: summaries,
		tagger:    tagger,
		indexer:   indexer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes one full ingestion pass. A failing feed query or candidate is
// counted and logged without aborting the rest of the run.
func (p *Pipeline) Run(ctx context.Context) (RunReport, error) {
	queries := feed.BuildQueries(p.cfg.Keywords, p.cfg.ChunkSize)
	if len(queries) == 0 {
		return RunReport{}, ErrNoKeywords
	}

	var raws []article.Raw
	var queryFailures int
	for _, query := range queries {
		if ctx.Err() != nil {
			return RunReport{}, ctx.Err()
		}
		records, err := p.feeds.FetchArticles(ctx, query)
		if err != nil {
			queryFailures++
			p.logger.WarnContext(ctx, "feed query failed", "query", query, "error", err)
			continue
		}
		raws = append(raws, records...)
	}

	unique := feed.Deduplicate(raws)
	top := feed.Rank(unique, p.cfg.Keywords, p.cfg.TopN)
	p.logger.InfoContext(ctx, "candidates selected",
		"fetched", len(raws), "unique", len(unique), "ranked", len(top))

	var saved, updated, skipped, indexed, failures atomic.Int64
	failures.Add(int64(queryFailures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for _, raw := range top {
		g.Go(func() error {
			outcome := p.process(gctx, raw)
			switch outcome {
			case outcomeSaved:
				saved.Add(1)
			case outcomeSavedIndexed:
				saved.Add(1)
				indexed.Add(1)
			case outcomeUpdated:
				updated.Add(1)
			case outcomeUpdatedIndexed:
				updated.Add(1)
				indexed.Add(1)
			case outcomeSkipped:
				skipped.Add(1)
			case outcomeFailed:
				failures.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := RunReport{
		fetched:    len(raws),
		candidates: len(top),
		saved:      int(saved.Load()),
		updated:    int(updated.Load()),
		skipped:    int(skipped.Load()),
		indexed:    int(indexed.Load()),
		failures:   int(failures.Load()),
	}
	p.logger.InfoContext(ctx, "ingestion run complete",
		"saved", report.saved, "updated", report.updated,
		"skipped", report.skipped, "indexed", report.indexed,
		"failures", report.failures)
	return report, nil
}

type processOutcome int

const (
	outcomeSaved processOutcome = iota
	outcomeSavedIndexed
	outcomeUpdated
	outcomeUpdatedIndexed
	outcomeSkipped
	outcomeFailed
)

// process takes one ranked candidate through extraction, persistence,
// tagging and indexing.
func (p *Pipeline) process(ctx context.Context, raw article.Raw) processOutcome {
	if article.WordCount(raw.Snippet) < p.cfg.MinArticleWords {
		if body := p.extractor.ExtractFullText(ctx, raw.URL); body != "" {
			raw.Snippet = body
		}
	}

	candidate := raw.ToArticle()
	if candidate.BodyWords() < p.cfg.MinArticleWords {
		p.logger.DebugContext(ctx, "candidate skipped, body too thin",
			"url", raw.URL, "words", candidate.BodyWords())
		return outcomeSkipped
	}

	persisted, created, err := p.articles.Upsert(ctx, candidate)
	if err != nil {
		p.logger.ErrorContext(ctx, "article upsert failed", "url", raw.URL, "error", err)
		return outcomeFailed
	}

	if err := p.summaries.UpsertForArticle(ctx, persisted,
		article.NewProvisionalSummary(persisted.Snippet())); err != nil {
		p.logger.WarnContext(ctx, "summary upsert failed",
			"article_id", persisted.ID(), "error", err)
	}

	if _, err := p.tagger.Tag(ctx, persisted); err != nil {
		p.logger.WarnContext(ctx, "tagging failed",
			"article_id", persisted.ID(), "error", err)
	}

	wasIndexed := p.indexer.UpsertArticle(ctx, persisted)
	switch {
	case created && wasIndexed:
		return outcomeSavedIndexed
	case created:
		return outcomeSaved
	case wasIndexed:
		return outcomeUpdatedIndexed
	default:
		return outcomeUpdated
	}
}
