package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "swampy-server/internal/domain/conversation"
	"swampy-server/internal/infrastructure/database/entities"
	"swampy-server/internal/utils/platformerrors"
)

// MessageRepository persists conversation messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs the message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a single message.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	defer track("message_create")()

	entity := entities.NewSchemaMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create message",
			err,
			"message-create-error",
		)
	}
	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// FindByID retrieves a message by its ID.
func (r *MessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	defer track("message_find")()

	var entity entities.Message
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("message not found: %d", id),
				nil,
				"message-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch message",
			err,
			"message-fetch-error",
		)
	}
	return entity.EtoD(), nil
}

// ListByConversation returns a conversation's messages ordered by timestamp.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	defer track("message_list")()

	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"message-list-error",
		)
	}

	result := make([]domain.Message, len(rows))
	for i := range rows {
		result[i] = *rows[i].EtoD()
	}
	return result, nil
}

// Delete removes a single message.
func (r *MessageRepository) Delete(ctx context.Context, id uint) error {
	defer track("message_delete")()

	if err := r.db.WithContext(ctx).Delete(&entities.Message{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete message",
			err,
			"message-delete-error",
		)
	}
	return nil
}

// DeleteByConversation removes all messages of a conversation.
func (r *MessageRepository) DeleteByConversation(ctx context.Context, conversationID uint) error {
	defer track("message_delete_by_conversation")()

	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&entities.Message{}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation messages",
			err,
			"message-delete-by-conversation-error",
		)
	}
	return nil
}

var _ domain.MessageRepository = (*MessageRepository)(nil)
