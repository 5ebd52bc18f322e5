package inmemory

import (
	"context"
	"fmt"
	"sort"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

func (s *Store) CreatePost(ctx context.Context, params storage.NewPost) (*domain.Post, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[params.TopicID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if topic.IsLocked {
		return nil, storage.ErrTopicLocked
	}
	author, ok := s.users[params.AuthorID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	var parent *domain.Post
	if params.ParentID != nil {
		p, ok := s.posts[*params.ParentID]
		if !ok || p.TopicID != topic.ID {
			return nil, storage.ErrNotFound
		}
		parent = p
	}
	forum, ok := s.forums[topic.ForumID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	now := s.now()
	post := &domain.Post{
		ID:        s.nextID("posts"),
		Content:   params.Content,
		TopicID:   topic.ID,
		AuthorID:  params.AuthorID,
		ParentID:  params.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[post.ID] = post
	topic.UpdatedAt = now
	forum.PostsCount++
	author.PostsCount++

	link := fmt.Sprintf("/topics/%d", topic.ID)
	if topic.AuthorID != post.AuthorID {
		s.addNotificationLocked(topic.AuthorID, domain.NotificationReply,
			fmt.Sprintf("%s replied to your topic %q", author.Username, topic.Title), link)
	}
	if parent != nil && parent.AuthorID != post.AuthorID {
		s.addNotificationLocked(parent.AuthorID, domain.NotificationReply,
			fmt.Sprintf("%s replied to your post in %q", author.Username, topic.Title), link)
	}

	return clonePost(post), nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	p := clonePost(post)
	p.Author = cloneUser(s.users[post.AuthorID])
	if topic, ok := s.topics[post.TopicID]; ok {
		p.Topic = cloneTopic(topic)
	}
	return p, nil
}

func (s *Store) GetUserPosts(ctx context.Context, userID int64) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []*domain.Post
	for _, p := range s.posts {
		if p.AuthorID != userID {
			continue
		}
		post := clonePost(p)
		if topic, ok := s.topics[p.TopicID]; ok {
			post.Topic = cloneTopic(topic)
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	if len(posts) > 10 {
		posts = posts[:10]
	}
	return posts, nil
}

func (s *Store) EditPost(ctx context.Context, id int64, content string) (*domain.Post, error) {
	if content == "" {
		return nil, &storage.ValidationError{Field: "content", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	now := s.now()
	post.Content = content
	post.IsEdited = true
	post.EditedAt = &now
	post.UpdatedAt = now
	return clonePost(post), nil
}
