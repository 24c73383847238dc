package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
)

// Assistant answers free-text questions about the indexed news corpus. It
// retrieves the most similar articles as context and hands them to the
// generation model. Retrieval failures degrade to an ungrounded answer
// rather than failing the question.
type Assistant struct {
	indexer     *Indexer
	generator   search.TextGenerator
	searchLimit int
	logger      *slog.Logger
}

// Answer is the assistant's response plus the articles it was grounded on.
type Answer struct {
	text    string
	sources []search.Match
}

// Text returns the generated answer.
func (a Answer) Text() string { return a.text }

// Sources returns the articles used as context, best match first. Empty when
// retrieval found nothing or failed.
func (a Answer) Sources() []search.Match {
	result := make([]search.Match, len(a.sources))
	copy(result, a.sources)
	return result
}

// NewAssistant creates a new Assistant.
func NewAssistant(indexer *Indexer, generator search.TextGenerator, searchLimit int, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		indexer:     indexer,
		generator:   generator,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// Ask answers the question using the indexed articles as context.
func (a *Assistant) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	matches := a.indexer.SearchSimilar(ctx, question, a.searchLimit)
	if len(matches) == 0 {
		a.logger.InfoContext(ctx, "no similar articles found, answering without context")
	}

	completion, err := a.generator.Generate(ctx, buildPrompt(question, matches))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	return Answer{text: completion.Text, sources: matches}, nil
}

// buildPrompt assembles the retrieval-augmented prompt: the matched article
// payloads as numbered context blocks, then the question.
func buildPrompt(question string, matches []search.Match) string {
	var b strings.Builder
	b.WriteString("You are an analyst of global economic and job market news. ")
	b.WriteString("Answer the question using the news context below. ")
	b.WriteString("If the context is insufficient, say so and answer from general knowledge.\n\n")

	if len(matches) > 0 {
		b.WriteString("Context:\n")
		for i, m := range matches {
			fmt.Fprintf(&b, "[%d] %s (%s, %s)\n", i+1, m.Payload.Title, m.Payload.Source, m.Payload.PublishedAt)
			if m.Payload.Snippet != "" {
				b.WriteString(m.Payload.Snippet)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
