package postgres

import (
	"context"
	"errors"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"gorm.io/gorm"
)

func (s *Store) CreateCategory(ctx context.Context, name string, sortOrder int) (*domain.Category, error) {
	if name == "" {
		return nil, &storage.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	category := &domain.Category{Name: name, SortOrder: sortOrder}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategories returns all categories in display order, each with its
// forums attached.
func (s *Store) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := s.db.WithContext(ctx).
		Order("sort_order ASC").
		Preload("Forums", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Find(&categories).Error
	return categories, err
}

func (s *Store) CreateForum(ctx context.Context, params storage.NewForum) (*domain.Forum, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	forum := &domain.Forum{
		Title:       params.Title,
		Description: params.Description,
		SortOrder:   params.SortOrder,
		CategoryID:  params.CategoryID,
	}
	if err := s.db.WithContext(ctx).Create(forum).Error; err != nil {
		return nil, err
	}
	return forum, nil
}

// GetForumByID returns a forum with its topic listing: every topic carries
// its author and its most recent post, and the listing is ordered sticky
// first, then by latest activity.
func (s *Store) GetForumByID(ctx context.Context, id int64) (*domain.Forum, error) {
	var forum domain.Forum
	err := s.db.WithContext(ctx).
		Preload("Topics").
		Preload("Topics.Author").
		First(&forum, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// One extra query per topic for its latest post.
	for _, topic := range forum.Topics {
		var last domain.Post
		err := s.db.WithContext(ctx).
			Preload("Author").
			Where("topic_id = ?", topic.ID).
			Order("created_at DESC").
			First(&last).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		topic.LastPost = &last
	}

	storage.SortTopics(forum.Topics)
	return &forum, nil
}
