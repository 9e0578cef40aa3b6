package conversation

import (
	"context"
	"time"
)

// Repository persists conversation metadata.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByID(ctx context.Context, id uint) (*Conversation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Conversation, error)
	Update(ctx context.Context, conv *Conversation) error
	Touch(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}

// MessageRepository persists conversation messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uint) (*Message, error)
	ListByConversation(ctx context.Context, conversationID uint) ([]Message, error)
	Delete(ctx context.Context, id uint) error
	DeleteByConversation(ctx context.Context, conversationID uint) error
}
