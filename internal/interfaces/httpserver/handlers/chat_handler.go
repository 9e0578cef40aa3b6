package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"swampy-server/internal/domain/chat"
	"swampy-server/internal/domain/generation"
	"swampy-server/internal/infrastructure/metrics"
	"swampy-server/internal/infrastructure/observability"
	"swampy-server/internal/interfaces/httpserver/requests"
	"swampy-server/internal/interfaces/httpserver/responses"
	"swampy-server/internal/utils/platformerrors"
)

// ChatHandler streams chat turns as newline-delimited token events.
type ChatHandler struct {
	orchestrator *chat.Orchestrator
	log          zerolog.Logger
}

// NewChatHandler constructs the chat handler.
func NewChatHandler(orchestrator *chat.Orchestrator, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		log:          log.With().Str("handler", "chat").Logger(),
	}
}

// Stream handles POST /api/chat.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"messages array is required", "chat-invalid-body")
		return
	}
	if len(req.Messages) == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"messages array is required", "chat-empty-messages")
		return
	}

	turns := make([]generation.Turn, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := generation.RoleUser
		if msg.Role == string(generation.RoleAssistant) {
			role = generation.RoleAssistant
		}
		turns = append(turns, generation.Turn{Role: role, Content: msg.Content})
	}

	chatReq := chat.Request{
		Turns:       turns,
		ForceSearch: req.EnableSearch,
	}
	if len(req.Files) > 0 {
		chatReq.Attachment = &chat.Attachment{
			Name:    req.Files[0].Name,
			Content: req.Files[0].Content,
		}
	}

	lastMessage := turns[len(turns)-1].Content
	mode := "generate"
	grounded := req.EnableSearch || chat.IsSearchCommand(lastMessage)
	switch {
	case chatReq.Attachment != nil && chat.IsDeployCommand(lastMessage):
		mode = "deploy"
	case grounded:
		mode = "search"
	}

	ctx, span := observability.StartChatSpan(c.Request.Context(), c.Query("conversationId"), grounded)
	defer span.End()

	stream := newTokenStream(c, mode)
	start := time.Now()
	err := h.orchestrator.Run(ctx, chatReq, stream)
	if mode != "deploy" {
		metrics.RecordGeneration(grounded, time.Since(start).Seconds())
	}
	if err == nil {
		return
	}

	observability.RecordError(span, err)
	if !stream.Started() {
		h.log.Error().Err(err).Msg("chat stream failed before first token")
		responses.HandleError(c, err, "failed to stream chat response")
		return
	}

	// Tokens are already on the wire, so the only honest signal left is an
	// aborted connection.
	h.log.Error().Err(err).Int("tokens_sent", stream.count).Msg("chat stream failed mid-flight")
	panic(http.ErrAbortHandler)
}
