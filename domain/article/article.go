// Package article defines the canonical news article aggregate.
package article

import (
	"context"
	"strings"
	"time"
)

// TitleMaxLen is the persisted title length cap.
const TitleMaxLen = 300

// Article is a canonical news record. The URL is the sole deduplication key
// across the pipeline: once persisted it is immutable, while every other
// field is replaceable via upsert.
type Article struct {
	id          int64
	url         string
	title       string
	snippet     string
	source      string
	publishedAt *time.Time
	fetchedAt   time.Time
}

// New creates an unpersisted Article. The title is capped at TitleMaxLen and
// the snippet is trimmed.
func New(url, title, snippet, source string, publishedAt *time.Time) Article {
	if len(title) > TitleMaxLen {
		title = title[:TitleMaxLen]
	}
	return Article{
		url:         url,
		title:       title,
		snippet:     strings.TrimSpace(snippet),
		source:      source,
		publishedAt: publishedAt,
	}
}

// Reconstruct rebuilds an Article from persisted state.
func Reconstruct(id int64, url, title, snippet, source string, publishedAt *time.Time, fetchedAt time.Time) Article {
	return Article{
		id:          id,
		url:         url,
		title:       title,
		snippet:     snippet,
		source:      source,
		publishedAt: publishedAt,
		fetchedAt:   fetchedAt,
	}
}

// ID returns the database identity (0 when unpersisted).
func (a Article) ID() int64 { return a.id }

// URL returns the canonical URL.
func (a Article) URL() string { return a.url }

// Title returns the article title.
func (a Article) Title() string { return a.title }

// Snippet returns the snippet or full body text.
func (a Article) Snippet() string { return a.snippet }

// Source returns the source domain.
func (a Article) Source() string { return a.source }

// PublishedAt returns the publication time, nil when unknown.
func (a Article) PublishedAt() *time.Time { return a.publishedAt }

// FetchedAt returns when the article was first persisted.
func (a Article) FetchedAt() time.Time { return a.fetchedAt }

// WithSnippet returns a copy with the snippet replaced.
func (a Article) WithSnippet(snippet string) Article {
	a.snippet = strings.TrimSpace(snippet)
	return a
}

// BodyWords returns the snippet word count, the pipeline's content-quality
// proxy.
func (a Article) BodyWords() int {
	return WordCount(a.snippet)
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Store persists canonical articles keyed by URL.
type Store interface {
	// Upsert creates the article if its URL is unseen, otherwise replaces
	// every field except the URL. The second return reports creation.
	Upsert(ctx context.Context, a Article) (Article, bool, error)

	// FindByURL returns the article with the given URL.
	FindByURL(ctx context.Context, url string) (Article, error)

	// All returns every persisted article, oldest first.
	All(ctx context.Context) ([]Article, error)

	// Count returns the number of persisted articles.
	Count(ctx context.Context) (int64, error)
}

// TopicStore persists topics and their many-to-many relation to articles.
// Topics are created lazily and never deleted by the pipeline.
type TopicStore interface {
	// GetOrCreate returns the topic with the given name, creating it on
	// first use. The second return reports creation.
	GetOrCreate(ctx context.Context, name string) (Topic, bool, error)

	// Attach links a topic to an article. Attaching an already-linked
	// topic is a no-op.
	Attach(ctx context.Context, a Article, t Topic) error

	// TopicsFor returns the topics attached to an article.
	TopicsFor(ctx context.Context, a Article) ([]Topic, error)
}

// SummaryStore persists the one-to-one summary page for an article.
type SummaryStore interface {
	// UpsertForArticle creates or replaces the article's summary page.
	UpsertForArticle(ctx context.Context, a Article, s Summary) error

	// Unsummarized returns the articles whose summary page is missing or
	// still provisional, oldest first.
	Unsummarized(ctx context.Context) ([]Article, error)
}
