package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oscar/internal/api"
	"oscar/internal/api/handlers"
	"oscar/internal/oscar"
	"oscar/internal/repository"
	"oscar/internal/service"
	"oscar/pkg/auth"
	"oscar/pkg/config"
	"oscar/pkg/logger"
	"oscar/pkg/postgres"

	"go.uber.org/zap"
)

// @title OSCAR API
// @version 1.0
// @description Keyword-matching portfolio assistant that answers questions about its subject from a fixed knowledge base

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting OSCAR",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("knowledge", cfg.Knowledge.Source),
	)

	ctx := context.Background()

	var (
		sessions service.SessionStore
		messages service.MessageStore
		kbStore  service.KnowledgeStore
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db, appLogger); err != nil {
			appLogger.Fatal("Failed to apply schema", zap.Error(err))
		}

		sessions = repository.NewSessionRepository(db, appLogger)
		messages = repository.NewMessageRepository(db, appLogger)
		kbStore = repository.NewKnowledgeRepository(db, appLogger)
	default:
		appLogger.Warn("Using in-memory chat storage, history is lost on restart")
		sessions = repository.NewMemorySessionRepository()
		messages = repository.NewMemoryMessageRepository()
	}

	// The knowledge base is loaded once; the engine is read-only from here on.
	knowledgeService := service.NewKnowledgeService(kbStore, &cfg.Knowledge, logger.Named("knowledge"))
	engine, err := knowledgeService.BuildEngine(ctx, oscar.WithPicker(oscar.RandomPicker{}))
	if err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	chatService := service.NewChatService(engine, sessions, messages, &cfg.Chat, logger.Named("chat"))

	chatHandler := handlers.NewChatHandler(chatService, jwtManager, appLogger)
	oscarHandler := handlers.NewOscarHandler(engine, appLogger)

	app := api.SetupRouter(chatHandler, oscarHandler, jwtManager, &cfg.Server, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
