package inmemory

import (
	"context"
	"sort"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

// addNotificationLocked records a notification for a user. Callers hold the
// lock.
func (s *Store) addNotificationLocked(userID int64, kind, content, link string) {
	n := &domain.Notification{
		ID:        s.nextID("notifications"),
		Type:      kind,
		Content:   content,
		Link:      &link,
		UserID:    userID,
		CreatedAt: s.now(),
	}
	s.notifications[n.ID] = n
}

func (s *Store) GetNotifications(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notifications []*domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			notifications = append(notifications, cloneNotification(n))
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
		}
		return notifications[i].ID > notifications[j].ID
	})
	return notifications, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return storage.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
		}
	}
	return nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
