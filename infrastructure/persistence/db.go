package persistence

import (
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/database"
)

// AutoMigrate runs GORM auto migration for all models, including the
// article_topics join table.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&ArticleModel{},
		&TopicModel{},
		&SummaryModel{},
	)
}
