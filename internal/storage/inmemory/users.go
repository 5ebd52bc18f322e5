package inmemory

import (
	"context"
	"fmt"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

func (s *Store) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	if err := storage.ValidateNewUser(username, email, password); err != nil {
		return nil, err
	}
	hash, err := domain.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, &storage.ConflictError{Field: "username"}
		}
		if u.Email == email {
			return nil, &storage.ConflictError{Field: "email"}
		}
	}

	now := s.now()
	user := &domain.User{
		ID:           s.nextID("users"),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user
	return cloneUser(user), nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id int64, avatarURL, signature *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}
	if signature != nil {
		user.Signature = signature
	}
	if avatarURL != nil || signature != nil {
		user.UpdatedAt = s.now()
	}
	return cloneUser(user), nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
