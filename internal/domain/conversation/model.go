package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one the store accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is one chat thread owned by a user.
type Conversation struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AttachmentMeta records what was attached to a message. Content is not
// persisted, only the descriptor.
type AttachmentMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	PublicURL string `json:"publicUrl,omitempty"`
}

// Message is one turn of a conversation. Timestamp is epoch milliseconds as
// reported by the client; CreatedAt is when the row was written.
type Message struct {
	ID             uint             `json:"id"`
	ConversationID uint             `json:"conversationId"`
	Role           Role             `json:"role"`
	Content        string           `json:"content"`
	Timestamp      int64            `json:"timestamp"`
	Attachments    []AttachmentMeta `json:"attachments,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}
