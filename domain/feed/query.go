// Package feed contains the pure candidate-selection logic of the pipeline:
// provider query building, cross-chunk deduplication and heuristic ranking.
package feed

import "strings"

// BuildQueries converts a keyword vocabulary into provider search queries.
// Terms are quoted and OR-joined, grouped into chunks of at most chunkSize
// keywords because the provider rejects long or overly complex queries.
// An empty vocabulary yields no queries.
func BuildQueries(keywords []string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 1
	}

	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	if len(terms) == 0 {
		return nil
	}

	queries := make([]string, 0, (len(terms)+chunkSize-1)/chunkSize)
	for start := 0; start < len(terms); start += chunkSize {
		end := min(start+chunkSize, len(terms))

		quoted := make([]string, end-start)
		for i, term := range terms[start:end] {
			quoted[i] = `"` + term + `"`
		}
		queries = append(queries, "("+strings.Join(quoted, " OR ")+")")
	}
	return queries
}
