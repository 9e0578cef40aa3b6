package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "swampy-server/internal/domain/conversation"
	"swampy-server/internal/infrastructure/database/entities"
	"swampy-server/internal/utils/platformerrors"
)

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	defer track("conversation_create")()

	entity := entities.NewSchemaConversation(conv)
	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"conversation-create-error",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByID fetches a conversation by its ID.
func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	defer track("conversation_find")()

	var entity entities.Conversation
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %d", id),
				nil,
				"conversation-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"conversation-fetch-error",
		)
	}

	return entity.EtoD(), nil
}

// ListByUser fetches a user's conversations most-recently-updated first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Conversation, error) {
	defer track("conversation_list")()

	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"conversation-list-error",
		)
	}

	result := make([]*domain.Conversation, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// Update updates a conversation record.
func (r *Repository) Update(ctx context.Context, conv *domain.Conversation) error {
	defer track("conversation_update")()

	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation",
			err,
			"conversation-update-error",
		)
	}
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// Touch bumps the conversation's last-activity timestamp.
func (r *Repository) Touch(ctx context.Context, id uint, at time.Time) error {
	defer track("conversation_touch")()

	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to touch conversation",
			err,
			"conversation-touch-error",
		)
	}
	return nil
}

// Delete removes a conversation record.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	defer track("conversation_delete")()

	if err := r.db.WithContext(ctx).Delete(&entities.Conversation{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation",
			err,
			"conversation-delete-error",
		)
	}
	return nil
}

var _ domain.Repository = (*Repository)(nil)
