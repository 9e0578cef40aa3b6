package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"swampy-server/internal/utils/platformerrors"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// UpdateParams carries the mutable conversation fields. Nil means unchanged.
type UpdateParams struct {
	Title     *string
	UpdatedAt *time.Time
}

// AppendMessageParams carries a new message for a conversation.
type AppendMessageParams struct {
	Role        Role
	Content     string
	Timestamp   int64
	Attachments []AttachmentMeta
}

// Service exposes owner-scoped conversation operations. Ownership failures are
// reported as not-found so callers cannot probe for other users' threads.
type Service interface {
	List(ctx context.Context, userID string, limit, offset int) ([]*Conversation, error)
	Create(ctx context.Context, userID, title string) (*Conversation, error)
	GetWithMessages(ctx context.Context, userID string, id uint) (*Conversation, []Message, error)
	Update(ctx context.Context, userID string, id uint, params UpdateParams) (*Conversation, error)
	Delete(ctx context.Context, userID string, id uint) error
	AppendMessage(ctx context.Context, userID string, conversationID uint, params AppendMessageParams) (*Message, error)
	DeleteMessage(ctx context.Context, userID string, messageID uint) error
}

type service struct {
	conversations Repository
	messages      MessageRepository
	log           zerolog.Logger
}

// NewService constructs the conversation service.
func NewService(conversations Repository, messages MessageRepository, log zerolog.Logger) Service {
	return &service{
		conversations: conversations,
		messages:      messages,
		log:           log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) List(ctx context.Context, userID string, limit, offset int) ([]*Conversation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.conversations.ListByUser(ctx, userID, limit, offset)
}

func (s *service) Create(ctx context.Context, userID, title string) (*Conversation, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"title cannot be empty", nil, "conversation-empty-title")
	}

	conv := &Conversation{
		Title:  trimmed,
		UserID: userID,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	s.log.Debug().Uint("conversation_id", conv.ID).Msg("conversation created")
	return conv, nil
}

func (s *service) GetWithMessages(ctx context.Context, userID string, id uint) (*Conversation, []Message, error) {
	conv, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	msgs, err := s.messages.ListByConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return conv, msgs, nil
}

func (s *service) Update(ctx context.Context, userID string, id uint, params UpdateParams) (*Conversation, error) {
	conv, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		if trimmed == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"title must be a non-empty string", nil, "conversation-invalid-title")
		}
		conv.Title = trimmed
	}
	if params.UpdatedAt != nil {
		conv.UpdatedAt = *params.UpdatedAt
	} else {
		conv.UpdatedAt = time.Now().UTC()
	}

	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *service) Delete(ctx context.Context, userID string, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.messages.DeleteByConversation(ctx, id); err != nil {
		return err
	}
	if err := s.conversations.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug().Uint("conversation_id", id).Msg("conversation deleted")
	return nil
}

func (s *service) AppendMessage(ctx context.Context, userID string, conversationID uint, params AppendMessageParams) (*Message, error) {
	if !params.Role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			`role must be either "user" or "assistant"`, nil, "message-invalid-role")
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"content cannot be empty", nil, "message-empty-content")
	}

	if _, err := s.owned(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	timestamp := params.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	msg := &Message{
		ConversationID: conversationID,
		Role:           params.Role,
		Content:        content,
		Timestamp:      timestamp,
		Attachments:    params.Attachments,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	// A new message counts as conversation activity.
	if err := s.conversations.Touch(ctx, conversationID, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Uint("conversation_id", conversationID).Msg("failed to bump conversation activity")
	}
	return msg, nil
}

func (s *service) DeleteMessage(ctx context.Context, userID string, messageID uint) error {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, userID, msg.ConversationID); err != nil {
		return err
	}
	return s.messages.Delete(ctx, messageID)
}

// owned fetches the conversation and verifies ownership, folding "exists but
// not owned" into not-found.
func (s *service) owned(ctx context.Context, userID string, id uint) (*Conversation, error) {
	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %d", id), nil, "conversation-not-owned")
	}
	return conv, nil
}
