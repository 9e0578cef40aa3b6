package responses

import (
	"time"

	"swampy-server/internal/domain/conversation"
)

// ConversationPayload is returned to clients.
type ConversationPayload struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MessagePayload is returned to clients.
type MessagePayload struct {
	ID             uint                          `json:"id"`
	ConversationID uint                          `json:"conversationId"`
	Role           string                        `json:"role"`
	Content        string                        `json:"content"`
	Timestamp      int64                         `json:"timestamp"`
	Attachments    []conversation.AttachmentMeta `json:"attachments,omitempty"`
	CreatedAt      string                        `json:"createdAt"`
}

// ConversationWithMessages bundles a thread with its ordered history.
type ConversationWithMessages struct {
	Conversation ConversationPayload `json:"conversation"`
	Messages     []MessagePayload    `json:"messages"`
}

// DeletedPayload confirms a delete operation.
type DeletedPayload struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// FromConversation maps the domain conversation to its DTO.
func FromConversation(c *conversation.Conversation) ConversationPayload {
	return ConversationPayload{
		ID:        c.ID,
		Title:     c.Title,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// FromConversations maps a list of domain conversations.
func FromConversations(list []*conversation.Conversation) []ConversationPayload {
	payloads := make([]ConversationPayload, 0, len(list))
	for _, c := range list {
		payloads = append(payloads, FromConversation(c))
	}
	return payloads
}

// FromMessage maps the domain message to its DTO.
func FromMessage(m *conversation.Message) MessagePayload {
	return MessagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Attachments:    m.Attachments,
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromMessages maps a list of domain messages.
func FromMessages(list []conversation.Message) []MessagePayload {
	payloads := make([]MessagePayload, 0, len(list))
	for i := range list {
		payloads = append(payloads, FromMessage(&list[i]))
	}
	return payloads
}
