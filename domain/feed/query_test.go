package feed

import (
	"strings"
	"testing"
)

func TestBuildQueries_Chunking(t *testing.T) {
	keywords := []string{"inflation", "gdp", "recession", "oil", "sanction", "trade", "tariff"}

	queries := BuildQueries(keywords, 5)
	if len(queries) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(queries), queries)
	}
	if queries[0] != `("inflation" OR "gdp" OR "recession" OR "oil" OR "sanction")` {
		t.Errorf("first chunk: got %q", queries[0])
	}
	if queries[1] != `("trade" OR "tariff")` {
		t.Errorf("second chunk: got %q", queries[1])
	}
}

func TestBuildQueries_Empty(t *testing.T) {
	if got := BuildQueries(nil, 5); got != nil {
		t.Errorf("empty vocabulary must yield no queries, got %v", got)
	}
	if got := BuildQueries([]string{"", "  "}, 5); got != nil {
		t.Errorf("blank-only vocabulary must yield no queries, got %v", got)
	}
}

func TestBuildQueries_SingleChunk(t *testing.T) {
	queries := BuildQueries([]string{"layoffs"}, 5)
	if len(queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(queries))
	}
	if !strings.Contains(queries[0], `"layoffs"`) {
		t.Errorf("terms must be quoted: %q", queries[0])
	}
}

func TestBuildQueries_MultiWordTermQuoted(t *testing.T) {
	queries := BuildQueries([]string{"trade war"}, 5)
	if queries[0] != `("trade war")` {
		t.Errorf("multi-word term must stay one quoted phrase: %q", queries[0])
	}
}
