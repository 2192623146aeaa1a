package database

import (
	"context"

	"github.com/charmbracelet/log"
)

// Message is a text note from one user to another. Messages are never changed or deleted.
type Message struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	SenderID   int64  `gorm:"not null;index"`
	ReceiverID int64  `gorm:"not null;index"`
	Text       string `gorm:"not null"`
}

// CreateMessage stores the message and sets its ID.
func (c *Client) CreateMessage(ctx context.Context, message *Message) error {
	if err := c.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Error("failed to create message", "error", err)
		return err
	}
	return nil
}

// GetMessagesForUser returns all messages sent or received by the user, oldest first.
func (c *Client) GetMessagesForUser(ctx context.Context, userID int64) ([]Message, error) {
	messages := []Message{}
	if err := c.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		log.Error("failed to get messages for user", "user_id", userID, "error", err)
		return nil, err
	}
	return messages, nil
}
