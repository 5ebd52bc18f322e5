package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"gorm.io/gorm"
)

// CreatePost inserts a post into a topic, touches the topic's activity
// timestamp and bumps the forum and author counters in one transaction.
// Reply notifications are created after commit under the store's
// notification policy.
func (s *Store) CreatePost(ctx context.Context, params storage.NewPost) (*domain.Post, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Content:   params.Content,
		TopicID:   params.TopicID,
		AuthorID:  params.AuthorID,
		ParentID:  params.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var (
		topic  domain.Topic
		author domain.User
		parent *domain.Post
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&topic, params.TopicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if topic.IsLocked {
			return storage.ErrTopicLocked
		}
		if err := tx.First(&author, params.AuthorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if params.ParentID != nil {
			var p domain.Post
			if err := tx.First(&p, *params.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			// A threaded reply must stay within its topic.
			if p.TopicID != topic.ID {
				return storage.ErrNotFound
			}
			parent = &p
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Topic{}).Where("id = ?", topic.ID).
			UpdateColumn("updated_at", now).Error; err != nil {
			return err
		}
		if err := incrementForumCounts(tx, topic.ForumID, false); err != nil {
			return err
		}
		return incrementUserPostCount(tx, params.AuthorID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifyReply(ctx, &topic, &author, post, parent); err != nil {
		if s.notifyPolicy == storage.EffectRequired {
			return nil, err
		}
		log.Printf("post %d: notification side effect failed: %v", post.ID, err)
	}
	return post, nil
}

// notifyReply creates the "reply to your topic" and "reply to your post"
// notifications, skipping any that would target the replier themselves.
func (s *Store) notifyReply(ctx context.Context, topic *domain.Topic, author *domain.User, post *domain.Post, parent *domain.Post) error {
	link := fmt.Sprintf("/topics/%d", topic.ID)
	if topic.AuthorID != post.AuthorID {
		n := &domain.Notification{
			Type:    domain.NotificationReply,
			Content: fmt.Sprintf("%s replied to your topic %q", author.Username, topic.Title),
			Link:    &link,
			UserID:  topic.AuthorID,
		}
		if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
			return err
		}
	}
	if parent != nil && parent.AuthorID != post.AuthorID {
		n := &domain.Notification{
			Type:    domain.NotificationReply,
			Content: fmt.Sprintf("%s replied to your post in %q", author.Username, topic.Title),
			Link:    &link,
			UserID:  parent.AuthorID,
		}
		if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetPostByID returns a post with its author and parent topic attached.
func (s *Store) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Topic").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetUserPosts returns the user's ten most recent posts, newest first, each
// with its topic attached.
func (s *Store) GetUserPosts(ctx context.Context, userID int64) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.db.WithContext(ctx).
		Preload("Topic").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Limit(10).
		Find(&posts).Error
	return posts, err
}

// EditPost replaces a post's content and marks it edited. Whether the
// caller is allowed to edit is the caller's concern.
func (s *Store) EditPost(ctx context.Context, id int64, content string) (*domain.Post, error) {
	if content == "" {
		return nil, &storage.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	var post domain.Post
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		post.Content = content
		post.IsEdited = true
		post.EditedAt = &now
		return tx.Model(&post).Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
			"edited_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}
