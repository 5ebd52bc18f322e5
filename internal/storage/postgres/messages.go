package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lostcityforum/internal/domain"
	"lostcityforum/internal/storage"

	"gorm.io/gorm"
)

// CreateMessage sends a private message. The receiver's "new message"
// notification is created after the insert under the store's notification
// policy.
func (s *Store) CreateMessage(ctx context.Context, params storage.NewMessage) (*domain.Message, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	message := &domain.Message{
		Subject:    params.Subject,
		Content:    params.Content,
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
	}
	var sender domain.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sender, params.SenderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		var receiverCount int64
		if err := tx.Model(&domain.User{}).Where("id = ?", params.ReceiverID).Count(&receiverCount).Error; err != nil {
			return err
		}
		if receiverCount == 0 {
			return storage.ErrNotFound
		}
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("/messages/%d", message.ID)
	n := &domain.Notification{
		Type:    domain.NotificationMessage,
		Content: fmt.Sprintf("%s sent you a new message: %s", sender.Username, message.Subject),
		Link:    &link,
		UserID:  message.ReceiverID,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		if s.notifyPolicy == storage.EffectRequired {
			return nil, err
		}
		log.Printf("message %d: notification side effect failed: %v", message.ID, err)
	}
	return message, nil
}

// GetInbox returns all messages received by the user, newest first, with
// the sender attached.
func (s *Store) GetInbox(ctx context.Context, userID int64) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// GetSent returns all messages sent by the user, newest first, with the
// receiver attached.
func (s *Store) GetSent(ctx context.Context, userID int64) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := s.db.WithContext(ctx).
		Preload("Receiver").
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// GetMessage returns a message only to its sender or receiver; anyone else
// gets the not-found result. When the receiver reads an unread message it
// is marked read as part of the read itself.
func (s *Store) GetMessage(ctx context.Context, id, userID int64) (*domain.Message, error) {
	var message domain.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&message, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID && message.ReceiverID != userID {
		return nil, nil
	}
	if message.ReceiverID == userID && !message.IsRead {
		if err := s.db.WithContext(ctx).Model(&message).
			UpdateColumn("is_read", true).Error; err != nil {
			return nil, err
		}
		message.IsRead = true
	}
	return &message, nil
}
