package inmemory

import (
	"context"
	"sort"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

func (s *Store) CreateCategory(ctx context.Context, name string, sortOrder int) (*domain.Category, error) {
	if name == "" {
		return nil, &storage.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	category := &domain.Category{
		ID:        s.nextID("categories"),
		Name:      name,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories[category.ID] = category
	return cloneCategory(category), nil
}

func (s *Store) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		c := cloneCategory(cat)
		for _, f := range s.forums {
			if f.CategoryID == cat.ID {
				c.Forums = append(c.Forums, cloneForum(f))
			}
		}
		sort.Slice(c.Forums, func(i, j int) bool {
			if c.Forums[i].SortOrder != c.Forums[j].SortOrder {
				return c.Forums[i].SortOrder < c.Forums[j].SortOrder
			}
			return c.Forums[i].ID < c.Forums[j].ID
		})
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (s *Store) CreateForum(ctx context.Context, params storage.NewForum) (*domain.Forum, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	forum := &domain.Forum{
		ID:          s.nextID("forums"),
		Title:       params.Title,
		Description: params.Description,
		SortOrder:   params.SortOrder,
		CategoryID:  params.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.forums[forum.ID] = forum
	return cloneForum(forum), nil
}

func (s *Store) GetForumByID(ctx context.Context, id int64) (*domain.Forum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forum, ok := s.forums[id]
	if !ok {
		return nil, nil
	}

	f := cloneForum(forum)
	for _, t := range s.topics {
		if t.ForumID != id {
			continue
		}
		topic := cloneTopic(t)
		topic.Author = cloneUser(s.users[t.AuthorID])
		topic.LastPost = s.latestPostLocked(t.ID)
		f.Topics = append(f.Topics, topic)
	}
	storage.SortTopics(f.Topics)
	return f, nil
}

// latestPostLocked returns a copy of the topic's most recent post with its
// author attached. Callers hold the lock.
func (s *Store) latestPostLocked(topicID int64) *domain.Post {
	var latest *domain.Post
	for _, p := range s.posts {
		if p.TopicID != topicID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil
	}
	post := clonePost(latest)
	post.Author = cloneUser(s.users[latest.AuthorID])
	return post
}
