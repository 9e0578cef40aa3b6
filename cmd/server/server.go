package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"swampy-server/internal/config"
	"swampy-server/internal/domain/chat"
	"swampy-server/internal/domain/conversation"
	"swampy-server/internal/domain/deployment"
	"swampy-server/internal/infrastructure/auth"
	"swampy-server/internal/infrastructure/database"
	"swampy-server/internal/infrastructure/genai"
	"swampy-server/internal/infrastructure/logger"
	"swampy-server/internal/infrastructure/observability"
	conversationrepo "swampy-server/internal/infrastructure/repository/conversation"
	"swampy-server/internal/infrastructure/storage"
	"swampy-server/internal/interfaces/httpserver"
	"swampy-server/internal/worker"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	store, err := storage.NewPublicStore(cfg.PublicDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize public storage")
	}

	generationClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize generation client")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	messageRepository := conversationrepo.NewMessageRepository(db)
	conversationService := conversation.NewService(conversationRepository, messageRepository, log)
	deploymentService := deployment.NewService(store, log)
	orchestrator := chat.NewOrchestrator(generationClient, deploymentService, chat.Options{
		SiteURL:           cfg.SiteURL,
		PublicFileBase:    cfg.PublicFileBase(),
		ZipShareBase:      cfg.ZipShareBase(),
		SearchStatusDelay: cfg.SearchStatusDelay,
		DeployNoticeDelay: cfg.DeployNoticeDelay,
	}, log)

	// Deployed files expire; sweep them in the background
	janitor := worker.NewRetentionJanitor(cfg, store, log)
	go janitor.Run(ctx)

	httpServer := httpserver.New(cfg, log, orchestrator, conversationService, deploymentService, store, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
