package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
)

// Tagger attaches vocabulary topics to articles. A topic matches when its
// keyword appears anywhere in the title or body, case-insensitively. That
// over-matches on short keywords, which is accepted: tags feed discovery, so
// recall beats precision here.
type Tagger struct {
	topics     article.TopicStore
	vocabulary []string
	logger     *slog.Logger
}

// NewTagger creates a new Tagger over the keyword vocabulary.
func NewTagger(topics article.TopicStore, vocabulary []string, logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tagger{
		topics:     topics,
		vocabulary: append([]string(nil), vocabulary...),
		logger:     logger,
	}
}

// Tag attaches every matching vocabulary topic to the article and returns
// the attached topics. Topics are created lazily on first match.
func (t *Tagger) Tag(ctx context.Context, a article.Article) ([]article.Topic, error) {
	text := strings.ToLower(a.Title() + " " + a.Snippet())

	var attached []article.Topic
	for _, keyword := range t.vocabulary {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" || !strings.Contains(text, strings.ToLower(keyword)) {
			continue
		}

		topic, created, err := t.topics.GetOrCreate(ctx, keyword)
		if err != nil {
			return attached, fmt.Errorf("get or create topic %q: %w", keyword, err)
		}
		if created {
			t.logger.DebugContext(ctx, "topic created", "topic", topic.Name())
		}

		if err := t.topics.Attach(ctx, a, topic); err != nil {
			return attached, fmt.Errorf("attach topic %q: %w", keyword, err)
		}
		attached = append(attached, topic)
	}
	return attached, nil
}

// SeedTopics pre-creates topics for every vocabulary keyword so the topic
// table is fully populated before the first ingestion run.
func (t *Tagger) SeedTopics(ctx context.Context, names []string) (int, error) {
	var created int
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, wasCreated, err := t.topics.GetOrCreate(ctx, name)
		if err != nil {
			return created, fmt.Errorf("seed topic %q: %w", name, err)
		}
		if wasCreated {
			created++
		}
	}
	return created, nil
}
