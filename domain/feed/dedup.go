package feed

import "github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"

// Deduplicate merges normalized records from all query chunks, keyed by URL.
// The first occurrence wins; later records with the same URL are dropped.
// Input order (insertion order across chunks, chunks in query-submission
// order) is preserved, and records without a URL are discarded.
func Deduplicate(records []article.Raw) []article.Raw {
	seen := make(map[string]struct{}, len(records))
	result := make([]article.Raw, 0, len(records))

	for _, r := range records {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		result = append(result, r)
	}
	return result
}
