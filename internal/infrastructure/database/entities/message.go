package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"swampy-server/internal/domain/conversation"
)

// Message stores one turn of a conversation. Attachments holds descriptor
// metadata only, never file content.
type Message struct {
	ID             uint           `gorm:"primaryKey"`
	ConversationID uint           `gorm:"index;not null"`
	Role           string         `gorm:"type:varchar(32);not null"`
	Content        string         `gorm:"type:text;not null"`
	Timestamp      int64          `gorm:"index;not null"`
	Attachments    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model.
func (m *Message) EtoD() *conversation.Message {
	var attachments []conversation.AttachmentMeta
	if len(m.Attachments) > 0 {
		// Malformed rows degrade to no attachments rather than failing reads.
		_ = json.Unmarshal(m.Attachments, &attachments)
	}

	return &conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Attachments:    attachments,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from the domain model.
func NewSchemaMessage(m *conversation.Message) *Message {
	var attachments datatypes.JSON
	if len(m.Attachments) > 0 {
		if raw, err := json.Marshal(m.Attachments); err == nil {
			attachments = raw
		}
	}

	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Attachments:    attachments,
		CreatedAt:      m.CreatedAt,
	}
}
