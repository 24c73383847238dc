package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLArticleStrategy is the last-resort extractor: it fetches the page and
// joins the paragraphs found inside <article> tags. Crude, but it handles
// semantic-markup sites that defeat the heuristic extractors.
type HTMLArticleStrategy struct {
	client    *http.Client
	userAgent string
}

// NewHTMLArticleStrategy creates the strategy. The client's timeout bounds
// each fetch.
func NewHTMLArticleStrategy(client *http.Client, userAgent string) *HTMLArticleStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTMLArticleStrategy{client: client, userAgent: userAgent}
}

// Name implements Strategy.
func (s *HTMLArticleStrategy) Name() string { return "html-article" }

// Extract implements Strategy.
func (s *HTMLArticleStrategy) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var paragraphs []string
	doc.Find("article p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n"), nil
}
