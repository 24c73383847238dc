// Package extract retrieves full article bodies from the web. Several
// strategies are tried in order of output quality; the first one that yields
// a substantial body wins.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
)

// Strategy is one way of turning an article URL into plain body text.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Extract fetches pageURL and returns its main body text. An empty
	// string with a nil error means the page had no usable body.
	Extract(ctx context.Context, pageURL string) (string, error)
}

// Chain runs strategies in order and accepts the first body that clears the
// minimum word count. Strategy failures never propagate; a page that defeats
// every strategy simply yields no text.
type Chain struct {
	strategies []Strategy
	minWords   int
	log        *slog.Logger
}

// NewChain creates a chain over strategies. Bodies shorter than minWords are
// rejected and the next strategy is tried.
func NewChain(minWords int, strategies ...Strategy) *Chain {
	return &Chain{
		strategies: strategies,
		minWords:   minWords,
		log:        slog.Default().With("component", "extract"),
	}
}

// ExtractFullText returns the article body for pageURL, or "" when no
// strategy produces an acceptable one. Non-web URLs short-circuit to "".
func (c *Chain) ExtractFullText(ctx context.Context, pageURL string) string {
	if !IsWebURL(pageURL) {
		return ""
	}

	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return ""
		}

		text, err := s.Extract(ctx, pageURL)
		if err != nil {
			c.log.DebugContext(ctx, "extraction strategy failed",
				"strategy", s.Name(), "url", pageURL, "error", err)
			continue
		}

		text = strings.TrimSpace(text)
		if words := article.WordCount(text); words < c.minWords {
			c.log.DebugContext(ctx, "extraction too short",
				"strategy", s.Name(), "url", pageURL, "words", words)
			continue
		}
		return text
	}
	return ""
}

// IsWebURL reports whether raw is an http or https URL.
func IsWebURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
