package handlers

import (
	"github.com/rs/zerolog"

	"swampy-server/internal/domain/chat"
	"swampy-server/internal/domain/conversation"
	"swampy-server/internal/domain/deployment"
	"swampy-server/internal/infrastructure/storage"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Message      *MessageHandler
	Deploy       *DeployHandler
	Download     *DownloadHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	orchestrator *chat.Orchestrator,
	conversationService conversation.Service,
	deploymentService deployment.Service,
	store *storage.PublicStore,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:         NewChatHandler(orchestrator, log),
		Conversation: NewConversationHandler(conversationService, log),
		Message:      NewMessageHandler(conversationService, log),
		Deploy:       NewDeployHandler(deploymentService, log),
		Download:     NewDownloadHandler(store, log),
	}
}
