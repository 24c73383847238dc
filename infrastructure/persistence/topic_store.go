package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/database"
)

// TopicStore implements article.TopicStore using GORM.
type TopicStore struct {
	db     database.Database
	mapper TopicMapper
}

// NewTopicStore creates a new TopicStore.
func NewTopicStore(db database.Database) TopicStore {
	return TopicStore{db: db}
}

// GetOrCreate returns the topic with the given name, creating it on first
// use. The second return reports creation.
func (s TopicStore) GetOrCreate(ctx context.Context, name string) (article.Topic, bool, error) {
	var model TopicModel
	err := s.db.Session(ctx).Where("name = ?", name).First(&model).Error
	if err == nil {
		return s.mapper.ToDomain(model), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return article.Topic{}, false, fmt.Errorf("find topic: %w", err)
	}

	model = s.mapper.ToModel(article.NewTopic(name))
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		// A concurrent worker may have inserted the same name between the
		// lookup and the create; the unique index rejects the loser, so
		// re-run the lookup before giving up.
		var winner TopicModel
		if retryErr := s.db.Session(ctx).Where("name = ?", name).First(&winner).Error; retryErr == nil {
			return s.mapper.ToDomain(winner), false, nil
		}
		return article.Topic{}, false, fmt.Errorf("create topic: %w", result.Error)
	}
	return s.mapper.ToDomain(model), true, nil
}

// Attach links a topic to an article. Attaching an already-linked topic is a
// no-op; GORM inserts association rows with conflict-ignore semantics.
func (s TopicStore) Attach(ctx context.Context, a article.Article, t article.Topic) error {
	owner := ArticleModel{ID: a.ID()}
	member := s.mapper.ToModel(t)
	err := s.db.Session(ctx).Model(&owner).Association("Topics").Append(&member)
	if err != nil {
		return fmt.Errorf("attach topic %q to article %d: %w", t.Name(), a.ID(), err)
	}
	return nil
}

// TopicsFor returns the topics attached to an article.
func (s TopicStore) TopicsFor(ctx context.Context, a article.Article) ([]article.Topic, error) {
	owner := ArticleModel{ID: a.ID()}
	var models []TopicModel
	err := s.db.Session(ctx).Model(&owner).Association("Topics").Find(&models)
	if err != nil {
		return nil, fmt.Errorf("list topics for article %d: %w", a.ID(), err)
	}

	topics := make([]article.Topic, len(models))
	for i, m := range models {
		topics[i] = s.mapper.ToDomain(m)
	}
	return topics, nil
}
