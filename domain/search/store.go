package search

import "context"

// Point is one vector index entry: the article identity, its embedding and
// the payload subset served back with similarity matches.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// Payload is the article metadata stored alongside a vector.
type Payload struct {
	Title       string
	URL         string
	Source      string
	PublishedAt string
	Snippet     string
}

// Match is one similarity search result, best first.
type Match struct {
	ID      uint64
	Score   float32
	Payload Payload
}

// VectorStore maintains the vector collection. It is a best-effort sink, not
// a source of truth: callers may destroy and rebuild the collection at will.
type VectorStore interface {
	// EnsureCollection verifies the collection exists with the expected
	// dimension and cosine distance, recreating it on mismatch.
	EnsureCollection(ctx context.Context) error

	// Upsert inserts or replaces one point.
	Upsert(ctx context.Context, p Point) error

	// Query returns the nearest points to vector, best first.
	Query(ctx context.Context, vector []float32, limit int) ([]Match, error)
}
