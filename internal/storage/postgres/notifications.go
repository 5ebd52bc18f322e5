package postgres

import (
	"context"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"
)

// GetNotifications returns all notifications for the user, newest first.
func (s *Store) GetNotifications(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).Where("id = ?", id).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true).Error
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
