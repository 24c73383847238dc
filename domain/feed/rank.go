package feed

import (
	"sort"
	"strings"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
)

// Rank scores candidates by snippet word count and returns the top n.
//
// Candidates are pre-filtered to those whose lowercased title+snippet
// contains at least one vocabulary keyword. When the filter eliminates every
// candidate the unfiltered set is ranked instead: an overly strict
// vocabulary must never empty a non-empty batch on its own.
//
// The sort is stable: equal scores keep their deduplication order.
func Rank(candidates []article.Raw, keywords []string, n int) []article.Raw {
	if len(candidates) == 0 || n <= 0 {
		return nil
	}

	ranked := filterByKeywords(candidates, keywords)
	if len(ranked) == 0 {
		ranked = append([]article.Raw(nil), candidates...)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return article.WordCount(ranked[i].Snippet) > article.WordCount(ranked[j].Snippet)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func filterByKeywords(candidates []article.Raw, keywords []string) []article.Raw {
	if len(keywords) == 0 {
		return nil
	}

	matched := make([]article.Raw, 0, len(candidates))
	for _, c := range candidates {
		combined := strings.ToLower(c.Title + " " + c.Snippet)
		for _, k := range keywords {
			if strings.Contains(combined, strings.ToLower(k)) {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched
}
