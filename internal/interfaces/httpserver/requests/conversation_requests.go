package requests

import "swampy-server/internal/domain/conversation"

// CreateConversationRequest opens a new thread.
type CreateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// UpdateConversationRequest renames a thread or bumps its activity time.
// Nil fields are left unchanged.
type UpdateConversationRequest struct {
	Title     *string `json:"title"`
	UpdatedAt *string `json:"updatedAt"`
}

// AppendMessageRequest adds one message to a thread. Timestamp is epoch
// milliseconds; zero means "now".
type AppendMessageRequest struct {
	Role        string                        `json:"role" binding:"required"`
	Content     string                        `json:"content" binding:"required"`
	Timestamp   int64                         `json:"timestamp"`
	Attachments []conversation.AttachmentMeta `json:"attachments"`
}
