package inmemory

import (
	"context"
	"fmt"
	"sort"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

func (s *Store) CreateMessage(ctx context.Context, params storage.NewMessage) (*domain.Message, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.users[params.SenderID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if _, ok := s.users[params.ReceiverID]; !ok {
		return nil, storage.ErrNotFound
	}

	message := &domain.Message{
		ID:         s.nextID("messages"),
		Subject:    params.Subject,
		Content:    params.Content,
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		CreatedAt:  s.now(),
	}
	s.messages[message.ID] = message

	s.addNotificationLocked(message.ReceiverID, domain.NotificationMessage,
		fmt.Sprintf("%s sent you a new message: %s", sender.Username, message.Subject),
		fmt.Sprintf("/messages/%d", message.ID))

	return cloneMessage(message), nil
}

func (s *Store) GetInbox(ctx context.Context, userID int64) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listMessagesLocked(userID, true), nil
}

func (s *Store) GetSent(ctx context.Context, userID int64) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listMessagesLocked(userID, false), nil
}

// listMessagesLocked collects a user's messages, newest first, with the
// counterpart user attached. Callers hold the lock.
func (s *Store) listMessagesLocked(userID int64, inbox bool) []*domain.Message {
	var messages []*domain.Message
	for _, m := range s.messages {
		if inbox && m.ReceiverID != userID {
			continue
		}
		if !inbox && m.SenderID != userID {
			continue
		}
		message := cloneMessage(m)
		if inbox {
			message.Sender = cloneUser(s.users[m.SenderID])
		} else {
			message.Receiver = cloneUser(s.users[m.ReceiverID])
		}
		messages = append(messages, message)
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.After(messages[j].CreatedAt)
		}
		return messages[i].ID > messages[j].ID
	})
	return messages
}

func (s *Store) GetMessage(ctx context.Context, id, userID int64) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	if message.SenderID != userID && message.ReceiverID != userID {
		return nil, nil
	}
	if message.ReceiverID == userID && !message.IsRead {
		message.IsRead = true
	}
	m := cloneMessage(message)
	m.Sender = cloneUser(s.users[message.SenderID])
	m.Receiver = cloneUser(s.users[message.ReceiverID])
	return m, nil
}
