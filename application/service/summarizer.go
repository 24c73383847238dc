package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
)

// The generation API reports no confidence signal, so completed summaries
// carry a fixed score.
const summaryConfidence = 0.9

// Summarizer replaces provisional summaries with generated ones. Ingestion
// stores the article body as a placeholder summary; this pass walks every
// article still carrying one and asks the generation model for a real
// summary, recording which model produced it.
type Summarizer struct {
	summaries article.SummaryStore
	generator search.TextGenerator
	logger    *slog.Logger
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(summaries article.SummaryStore, generator search.TextGenerator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		summaries: summaries,
		generator: generator,
		logger:    logger,
	}
}

// Run summarizes every article whose summary page is missing or provisional.
// Per-article failures are logged and counted, not propagated. It returns
// how many articles were summarized and how many failed.
func (s *Summarizer) Run(ctx context.Context) (int, int, error) {
	pending, err := s.summaries.Unsummarized(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("pending summaries: %w", err)
	}

	var summarized, failed int
	for _, a := range pending {
		if ctx.Err() != nil {
			return summarized, failed, ctx.Err()
		}
		if err := s.summarize(ctx, a); err != nil {
			failed++
			s.logger.WarnContext(ctx, "summarization failed",
				"article_id", a.ID(), "url", a.URL(), "error", err)
			continue
		}
		summarized++
	}
	s.logger.InfoContext(ctx, "summarization complete",
		"summarized", summarized, "failed", failed)
	return summarized, failed, nil
}

func (s *Summarizer) summarize(ctx context.Context, a article.Article) error {
	completion, err := s.generator.Generate(ctx, summaryPrompt(a))
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	text := strings.TrimSpace(completion.Text)
	if text == "" {
		return errors.New("empty summary")
	}

	sum := article.NewSummary(text, text, completion.Model, time.Now().UTC(), summaryConfidence)
	return s.summaries.UpsertForArticle(ctx, a, sum)
}

func summaryPrompt(a article.Article) string {
	var b strings.Builder
	b.WriteString("Summarize the news article below in two or three sentences ")
	b.WriteString("for a reader tracking global economic and job market trends. ")
	b.WriteString("Keep concrete figures and names.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", a.Title())
	if a.Source() != "" {
		fmt.Fprintf(&b, "Source: %s\n", a.Source())
	}
	b.WriteString("\n")
	b.WriteString(a.Snippet())
	return b.String()
}
