package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"swampy-server/internal/domain/conversation"
	"swampy-server/internal/infrastructure/auth"
	"swampy-server/internal/interfaces/httpserver/requests"
	"swampy-server/internal/interfaces/httpserver/responses"
	"swampy-server/internal/utils/platformerrors"
)

// ConversationHandler serves the conversation CRUD surface.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the conversation handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	limit, err := intQuery(c, "limit", 10)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"limit must be an integer", "conversation-invalid-limit")
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"offset must be an integer", "conversation-invalid-offset")
		return
	}

	list, err := h.service.List(c.Request.Context(), auth.Subject(c), limit, offset)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, responses.FromConversations(list))
}

// Create handles POST /api/conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"title is required", "conversation-missing-title")
		return
	}

	conv, err := h.service.Create(c.Request.Context(), auth.Subject(c), req.Title)
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}
	c.JSON(http.StatusCreated, responses.FromConversation(conv))
}

// Get handles GET /api/conversations/:id.
func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	conv, msgs, err := h.service.GetWithMessages(c.Request.Context(), auth.Subject(c), id)
	if err != nil {
		responses.HandleError(c, err, "failed to get conversation")
		return
	}
	c.JSON(http.StatusOK, responses.ConversationWithMessages{
		Conversation: responses.FromConversation(conv),
		Messages:     responses.FromMessages(msgs),
	})
}

// Update handles PUT /api/conversations/:id.
func (h *ConversationHandler) Update(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	var req requests.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"invalid request body", "conversation-invalid-update")
		return
	}

	params := conversation.UpdateParams{Title: req.Title}
	if req.UpdatedAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.UpdatedAt)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
				"updatedAt must be an RFC 3339 timestamp", "conversation-invalid-updated-at")
			return
		}
		params.UpdatedAt = &parsed
	}

	conv, err := h.service.Update(c.Request.Context(), auth.Subject(c), id, params)
	if err != nil {
		responses.HandleError(c, err, "failed to update conversation")
		return
	}
	c.JSON(http.StatusOK, responses.FromConversation(conv))
}

// Delete handles DELETE /api/conversations/:id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.Subject(c), id); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}
	c.JSON(http.StatusOK, responses.DeletedPayload{
		Message: "Conversation deleted successfully",
		ID:      id,
	})
}

// conversationID parses the :id path parameter, writing the error response
// itself when the value is not a positive integer.
func conversationID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"valid ID is required", "conversation-invalid-id")
		return 0, false
	}
	return uint(id), true
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
