package persistence

import (
	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
)

// ArticleMapper converts between article.Article and ArticleModel.
type ArticleMapper struct{}

// ToDomain converts a model to a domain article.
func (ArticleMapper) ToDomain(m ArticleModel) article.Article {
	return article.Reconstruct(m.ID, m.URL, m.Title, m.Snippet, m.Source, m.PublishedAt, m.CreatedAt)
}

// ToModel converts a domain article to a model.
func (ArticleMapper) ToModel(a article.Article) ArticleModel {
	return ArticleModel{
		ID:          a.ID(),
		URL:         a.URL(),
		Title:       a.Title(),
		Snippet:     a.Snippet(),
		Source:      a.Source(),
		PublishedAt: a.PublishedAt(),
	}
}

// TopicMapper converts between article.Topic and TopicModel.
type TopicMapper struct{}

// ToDomain converts a model to a domain topic.
func (TopicMapper) ToDomain(m TopicModel) article.Topic {
	return article.ReconstructTopic(m.ID, m.Name, m.Slug)
}

// ToModel converts a domain topic to a model.
func (TopicMapper) ToModel(t article.Topic) TopicModel {
	return TopicModel{ID: t.ID(), Name: t.Name(), Slug: t.Slug()}
}

// SummaryMapper converts between article.Summary and SummaryModel.
type SummaryMapper struct{}

// ToDomain converts a model to a domain summary.
func (SummaryMapper) ToDomain(m SummaryModel) article.Summary {
	if m.SummarizedAt != nil && m.Confidence != nil {
		return article.NewSummary(m.ShortPreview, m.AISummary, m.ModelVersion, *m.SummarizedAt, *m.Confidence)
	}
	return article.NewProvisionalSummary(m.AISummary)
}

// ToModel converts a domain summary to a model for the given article.
func (SummaryMapper) ToModel(articleID int64, s article.Summary) SummaryModel {
	return SummaryModel{
		ArticleID:    articleID,
		HeroImage:    s.HeroImage(),
		ShortPreview: s.ShortPreview(),
		AISummary:    s.AISummary(),
		ModelVersion: s.ModelVersion(),
		SummarizedAt: s.SummarizedAt(),
		Confidence:   s.Confidence(),
	}
}
