package postgres

import (
	"context"
	"errors"
	"time"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"gorm.io/gorm"
)

// CreateTopic inserts a topic together with its initiating post and bumps
// the forum and author counters, all in one transaction. There is no
// partially created topic to clean up: any failing step rolls back the
// whole operation.
func (s *Store) CreateTopic(ctx context.Context, params storage.NewTopic) (*domain.Topic, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	topic := &domain.Topic{
		Title:     params.Title,
		ForumID:   params.ForumID,
		AuthorID:  params.AuthorID,
		IsSticky:  params.IsSticky,
		IsLocked:  params.IsLocked,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var forum domain.Forum
		if err := tx.First(&forum, params.ForumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Create(topic).Error; err != nil {
			return err
		}
		post := &domain.Post{
			Content:   params.Content,
			TopicID:   topic.ID,
			AuthorID:  params.AuthorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		topic.Posts = []*domain.Post{post}
		if err := incrementForumCounts(tx, params.ForumID, true); err != nil {
			return err
		}
		return incrementUserPostCount(tx, params.AuthorID)
	})
	if err != nil {
		return nil, err
	}
	return topic, nil
}

// GetTopicByID returns a topic with its forum, author and the full post
// sequence in posting order, each post with its author.
func (s *Store) GetTopicByID(ctx context.Context, id int64) (*domain.Topic, error) {
	var topic domain.Topic
	err := s.db.WithContext(ctx).
		Preload("Forum").
		Preload("Author").
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Posts.Author").
		First(&topic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// IncrementTopicViews bumps the view counter. Repeat views from the same
// visitor are counted again.
func (s *Store) IncrementTopicViews(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&domain.Topic{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ToggleTopicSticky(ctx context.Context, id int64) (*domain.Topic, error) {
	return s.toggleTopicFlag(ctx, id, "is_sticky")
}

func (s *Store) ToggleTopicLocked(ctx context.Context, id int64) (*domain.Topic, error) {
	return s.toggleTopicFlag(ctx, id, "is_locked")
}

// toggleTopicFlag reads the current value and writes its negation inside a
// transaction, touching only the target column.
func (s *Store) toggleTopicFlag(ctx context.Context, id int64, column string) (*domain.Topic, error) {
	var topic domain.Topic
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&topic, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		var next bool
		switch column {
		case "is_sticky":
			next = !topic.IsSticky
			topic.IsSticky = next
		case "is_locked":
			next = !topic.IsLocked
			topic.IsLocked = next
		}
		return tx.Model(&domain.Topic{}).Where("id = ?", id).
			UpdateColumn(column, next).Error
	})
	if err != nil {
		return nil, err
	}
	return &topic, nil
}
