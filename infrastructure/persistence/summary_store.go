package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/database"
)

// SummaryStore implements article.SummaryStore using GORM.
type SummaryStore struct {
	db       database.Database
	mapper   SummaryMapper
	articles ArticleMapper
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(db database.Database) SummaryStore {
	return SummaryStore{db: db}
}

// UpsertForArticle creates or replaces the article's summary page.
func (s SummaryStore) UpsertForArticle(ctx context.Context, a article.Article, sum article.Summary) error {
	var existing SummaryModel
	err := s.db.Session(ctx).Where("article_id = ?", a.ID()).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model := s.mapper.ToModel(a.ID(), sum)
		if result := s.db.Session(ctx).Omit("Article").Create(&model); result.Error != nil {
			return fmt.Errorf("create summary for article %d: %w", a.ID(), result.Error)
		}
		return nil
	case err != nil:
		return fmt.Errorf("find summary for article %d: %w", a.ID(), err)
	}

	model := s.mapper.ToModel(a.ID(), sum)
	model.ID = existing.ID
	model.CreatedAt = existing.CreatedAt
	if result := s.db.Session(ctx).Omit("Article").Save(&model); result.Error != nil {
		return fmt.Errorf("update summary for article %d: %w", a.ID(), result.Error)
	}
	return nil
}

// Unsummarized returns the articles whose summary page is missing or still
// provisional, oldest first.
func (s SummaryStore) Unsummarized(ctx context.Context) ([]article.Article, error) {
	var models []ArticleModel
	err := s.db.Session(ctx).
		Joins("LEFT JOIN article_summaries ON article_summaries.article_id = articles.id").
		Where("article_summaries.summarized_at IS NULL").
		Order("articles.id asc").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list unsummarized articles: %w", err)
	}

	out := make([]article.Article, len(models))
	for i, m := range models {
		out[i] = s.articles.ToDomain(m)
	}
	return out, nil
}
