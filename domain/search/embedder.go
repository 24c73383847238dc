// Package search defines the semantic retrieval contracts: embedding, text
// generation and the vector collection the pipeline keeps in sync with the
// record store.
package search

import "context"

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	// Embed returns the embedding for text. Implementations retry
	// rate-limit-class failures internally; any returned error is final.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completion is a generated text plus the model that produced it, so callers
// can record provenance.
type Completion struct {
	Text  string
	Model string
}

// TextGenerator produces free-text completions for the assistant and the
// summarizer.
type TextGenerator interface {
	// Generate answers the prompt, falling back across the configured
	// model priority list on quota, rate-limit and model-unavailable
	// conditions.
	Generate(ctx context.Context, prompt string) (Completion, error)
}
