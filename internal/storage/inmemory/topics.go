package inmemory

import (
	"context"
	"sort"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

func (s *Store) CreateTopic(ctx context.Context, params storage.NewTopic) (*domain.Topic, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	forum, ok := s.forums[params.ForumID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	author, ok := s.users[params.AuthorID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	now := s.now()
	topic := &domain.Topic{
		ID:        s.nextID("topics"),
		Title:     params.Title,
		ForumID:   params.ForumID,
		AuthorID:  params.AuthorID,
		IsSticky:  params.IsSticky,
		IsLocked:  params.IsLocked,
		CreatedAt: now,
		UpdatedAt: now,
	}
	post := &domain.Post{
		ID:        s.nextID("posts"),
		Content:   params.Content,
		TopicID:   topic.ID,
		AuthorID:  params.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.topics[topic.ID] = topic
	s.posts[post.ID] = post
	forum.TopicsCount++
	forum.PostsCount++
	author.PostsCount++

	out := cloneTopic(topic)
	out.Posts = []*domain.Post{clonePost(post)}
	return out, nil
}

func (s *Store) GetTopicByID(ctx context.Context, id int64) (*domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topic, ok := s.topics[id]
	if !ok {
		return nil, nil
	}

	t := cloneTopic(topic)
	if forum, ok := s.forums[topic.ForumID]; ok {
		t.Forum = cloneForum(forum)
	}
	t.Author = cloneUser(s.users[topic.AuthorID])
	for _, p := range s.posts {
		if p.TopicID != id {
			continue
		}
		post := clonePost(p)
		post.Author = cloneUser(s.users[p.AuthorID])
		t.Posts = append(t.Posts, post)
	}
	sort.Slice(t.Posts, func(i, j int) bool {
		if !t.Posts[i].CreatedAt.Equal(t.Posts[j].CreatedAt) {
			return t.Posts[i].CreatedAt.Before(t.Posts[j].CreatedAt)
		}
		return t.Posts[i].ID < t.Posts[j].ID
	})
	return t, nil
}

func (s *Store) IncrementTopicViews(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[id]
	if !ok {
		return storage.ErrNotFound
	}
	topic.Views++
	return nil
}

func (s *Store) ToggleTopicSticky(ctx context.Context, id int64) (*domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	topic.IsSticky = !topic.IsSticky
	return cloneTopic(topic), nil
}

func (s *Store) ToggleTopicLocked(ctx context.Context, id int64) (*domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	topic.IsLocked = !topic.IsLocked
	return cloneTopic(topic), nil
}
