package extract

import (
	"context"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// ReadabilityStrategy extracts bodies with the arc90 readability algorithm.
// It keeps more boilerplate than GoOse but succeeds on pages GoOse rejects.
type ReadabilityStrategy struct {
	timeout time.Duration
}

// NewReadabilityStrategy creates the strategy with a per-page fetch timeout.
func NewReadabilityStrategy(timeout time.Duration) *ReadabilityStrategy {
	return &ReadabilityStrategy{timeout: timeout}
}

// Name implements Strategy.
func (s *ReadabilityStrategy) Name() string { return "readability" }

// Extract implements Strategy.
func (s *ReadabilityStrategy) Extract(_ context.Context, pageURL string) (string, error) {
	art, err := readability.FromURL(pageURL, s.timeout)
	if err != nil {
		return "", err
	}
	return art.TextContent, nil
}
