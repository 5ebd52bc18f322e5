// Package inmemory implements the forum storage contract in process memory.
// It backs the test suite and local development; the semantics match the
// postgres backend, with the store mutex standing in for transactions.
package inmemory

import (
	"context"
	"sync"
	"time"

	"lostcityforum/internal/domain"
)

// Store implements storage.Storage in memory.
type Store struct {
	mu sync.RWMutex

	users         map[int64]*domain.User
	categories    map[int64]*domain.Category
	forums        map[int64]*domain.Forum
	topics        map[int64]*domain.Topic
	posts         map[int64]*domain.Post
	messages      map[int64]*domain.Message
	notifications map[int64]*domain.Notification

	seq     map[string]int64
	lastNow time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[int64]*domain.User),
		categories:    make(map[int64]*domain.Category),
		forums:        make(map[int64]*domain.Forum),
		topics:        make(map[int64]*domain.Topic),
		posts:         make(map[int64]*domain.Post),
		messages:      make(map[int64]*domain.Message),
		notifications: make(map[int64]*domain.Notification),
		seq:           make(map[string]int64),
	}
}

// Ping always succeeds: the store is the process itself.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// nextID hands out auto-incrementing ids per table. Callers hold the lock.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// now returns a strictly increasing UTC timestamp so that createdAt and
// updatedAt orderings are deterministic. Callers hold the lock.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastNow) {
		t = s.lastNow.Add(time.Microsecond)
	}
	s.lastNow = t
	return t
}

// The store hands out copies so callers can never mutate its state through
// a returned entity.

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneCategory(cat *domain.Category) *domain.Category {
	c := *cat
	c.Forums = nil
	return &c
}

func cloneForum(f *domain.Forum) *domain.Forum {
	c := *f
	c.Topics = nil
	return &c
}

func cloneTopic(t *domain.Topic) *domain.Topic {
	c := *t
	c.Forum = nil
	c.Author = nil
	c.Posts = nil
	c.LastPost = nil
	return &c
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	c.Author = nil
	c.Topic = nil
	return &c
}

func cloneMessage(m *domain.Message) *domain.Message {
	c := *m
	c.Sender = nil
	c.Receiver = nil
	return &c
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	c := *n
	return &c
}
