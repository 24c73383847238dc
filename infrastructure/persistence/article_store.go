package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/database"
)

// ArticleStore implements article.Store using GORM.
type ArticleStore struct {
	db     database.Database
	mapper ArticleMapper
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(db database.Database) ArticleStore {
	return ArticleStore{db: db}
}

// Upsert creates the article when its URL is unseen, otherwise replaces every
// field except the URL. The second return reports creation.
func (s ArticleStore) Upsert(ctx context.Context, a article.Article) (article.Article, bool, error) {
	var existing ArticleModel
	err := s.db.Session(ctx).Where("url = ?", a.URL()).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model := s.mapper.ToModel(a)
		if result := s.db.Session(ctx).Create(&model); result.Error != nil {
			return article.Article{}, false, fmt.Errorf("create article: %w", result.Error)
		}
		return s.mapper.ToDomain(model), true, nil
	case err != nil:
		return article.Article{}, false, fmt.Errorf("find article by url: %w", err)
	}

	existing.Title = a.Title()
	existing.Snippet = a.Snippet()
	existing.Source = a.Source()
	existing.PublishedAt = a.PublishedAt()
	if result := s.db.Session(ctx).Save(&existing); result.Error != nil {
		return article.Article{}, false, fmt.Errorf("update article: %w", result.Error)
	}
	return s.mapper.ToDomain(existing), false, nil
}

// FindByURL returns the article with the given URL.
func (s ArticleStore) FindByURL(ctx context.Context, url string) (article.Article, error) {
	var model ArticleModel
	err := s.db.Session(ctx).Where("url = ?", url).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return article.Article{}, fmt.Errorf("%w: article %s", database.ErrNotFound, url)
	}
	if err != nil {
		return article.Article{}, fmt.Errorf("find article by url: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// All returns every persisted article, oldest first.
func (s ArticleStore) All(ctx context.Context) ([]article.Article, error) {
	var models []ArticleModel
	if result := s.db.Session(ctx).Order("id asc").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("list articles: %w", result.Error)
	}

	articles := make([]article.Article, len(models))
	for i, m := range models {
		articles[i] = s.mapper.ToDomain(m)
	}
	return articles, nil
}

// Count returns the number of persisted articles.
func (s ArticleStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if result := s.db.Session(ctx).Model(&ArticleModel{}).Count(&count); result.Error != nil {
		return 0, fmt.Errorf("count articles: %w", result.Error)
	}
	return count, nil
}
