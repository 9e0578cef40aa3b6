package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"swampy-server/internal/domain/conversation"
	"swampy-server/internal/infrastructure/auth"
	"swampy-server/internal/interfaces/httpserver/requests"
	"swampy-server/internal/interfaces/httpserver/responses"
	"swampy-server/internal/utils/platformerrors"
)

// MessageHandler appends and deletes individual messages.
type MessageHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewMessageHandler constructs the message handler.
func NewMessageHandler(service conversation.Service, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		log:     log.With().Str("handler", "message").Logger(),
	}
}

// Append handles POST /api/conversations/:id/messages.
func (h *MessageHandler) Append(c *gin.Context) {
	conversationID, ok := conversationID(c)
	if !ok {
		return
	}

	var req requests.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"role and content are required", "message-invalid-body")
		return
	}

	msg, err := h.service.AppendMessage(c.Request.Context(), auth.Subject(c), conversationID,
		conversation.AppendMessageParams{
			Role:        conversation.Role(req.Role),
			Content:     req.Content,
			Timestamp:   req.Timestamp,
			Attachments: req.Attachments,
		})
	if err != nil {
		responses.HandleError(c, err, "failed to append message")
		return
	}
	c.JSON(http.StatusCreated, responses.FromMessage(msg))
}

// Delete handles DELETE /api/messages/:id.
func (h *MessageHandler) Delete(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"valid ID is required", "message-invalid-id")
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), auth.Subject(c), uint(id)); err != nil {
		responses.HandleError(c, err, "failed to delete message")
		return
	}
	c.JSON(http.StatusOK, responses.DeletedPayload{
		Message: "Message deleted successfully",
		ID:      uint(id),
	})
}
