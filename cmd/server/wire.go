//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"swampy-server/internal/config"
	"swampy-server/internal/domain/chat"
	"swampy-server/internal/domain/conversation"
	"swampy-server/internal/domain/deployment"
	"swampy-server/internal/domain/generation"
	"swampy-server/internal/infrastructure/auth"
	"swampy-server/internal/infrastructure/database"
	"swampy-server/internal/infrastructure/genai"
	"swampy-server/internal/infrastructure/logger"
	conversationrepo "swampy-server/internal/infrastructure/repository/conversation"
	"swampy-server/internal/infrastructure/storage"
	"swampy-server/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	conversationrepo.NewMessageRepository,
	wire.Bind(new(conversation.MessageRepository), new(*conversationrepo.MessageRepository)),
	conversation.NewService,
	newPublicStore,
	wire.Bind(new(deployment.Store), new(*storage.PublicStore)),
	deployment.NewService,
	newGenerationClient,
	wire.Bind(new(generation.Provider), new(*genai.Client)),
	newOrchestrator,
)

// BuildApplication demonstrates how to assemble the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newPublicStore(cfg *config.Config, log zerolog.Logger) (*storage.PublicStore, error) {
	return storage.NewPublicStore(cfg.PublicDir, log)
}

func newGenerationClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

func newOrchestrator(cfg *config.Config, provider generation.Provider, deployer deployment.Service, log zerolog.Logger) *chat.Orchestrator {
	return chat.NewOrchestrator(provider, deployer, chat.Options{
		SiteURL:           cfg.SiteURL,
		PublicFileBase:    cfg.PublicFileBase(),
		ZipShareBase:      cfg.ZipShareBase(),
		SearchStatusDelay: cfg.SearchStatusDelay,
		DeployNoticeDelay: cfg.DeployNoticeDelay,
	}, log)
}
