// Package persistence provides database storage implementations.
package persistence

import "time"

// ArticleModel is the GORM model for canonical articles.
type ArticleModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	URL         string `gorm:"uniqueIndex;size:2048;not null"`
	Title       string `gorm:"size:300"`
	Snippet     string `gorm:"type:text"`
	Source      string `gorm:"size:255"`
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Topics []TopicModel `gorm:"many2many:article_topics"`
}

// TableName returns the table name for ArticleModel.
func (ArticleModel) TableName() string { return "articles" }

// TopicModel is the GORM model for topics.
type TopicModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex;size:255;not null"`
	Slug      string `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for TopicModel.
func (TopicModel) TableName() string { return "topics" }

// SummaryModel is the GORM model for per-article summary pages.
type SummaryModel struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	ArticleID    int64 `gorm:"uniqueIndex;not null"`
	HeroImage    string
	ShortPreview string `gorm:"size:200"`
	AISummary    string `gorm:"type:text"`
	ModelVersion string `gorm:"size:255"`
	SummarizedAt *time.Time
	Confidence   *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Article ArticleModel `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for SummaryModel.
func (SummaryModel) TableName() string { return "article_summaries" }
