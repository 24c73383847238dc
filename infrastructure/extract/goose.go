package extract

import (
	"context"

	goose "github.com/advancedlogic/GoOse/pkg/goose"
)

// GooseStrategy extracts bodies with GoOse, which scores DOM nodes by text
// density. It produces the cleanest output of the chain, so it runs first.
type GooseStrategy struct {
	g goose.Goose
}

// NewGooseStrategy creates the strategy with default GoOse settings.
func NewGooseStrategy() *GooseStrategy {
	return &GooseStrategy{g: goose.New()}
}

// Name implements Strategy.
func (s *GooseStrategy) Name() string { return "goose" }

// Extract implements Strategy. GoOse fetches the page itself and is not
// context-aware; cancellation is checked by the chain between strategies.
func (s *GooseStrategy) Extract(_ context.Context, pageURL string) (string, error) {
	art, err := s.g.ExtractFromURL(pageURL)
	if err != nil {
		return "", err
	}
	if art == nil {
		return "", nil
	}
	return art.CleanedText, nil
}
