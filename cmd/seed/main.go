package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"oscar/internal/repository"
	"oscar/internal/service"
	"oscar/pkg/config"
	"oscar/pkg/logger"
	"oscar/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	var (
		cacheFile = flag.String("cache", filepath.Join("cmd", "seed", ".seed_cache.json"), "file remembering what was already seeded")
		force     = flag.Bool("force", false, "seed even if the document is unchanged")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// An explicit argument wins over KNOWLEDGE_PATH; with neither the embedded document is seeded.
	path := cfg.Knowledge.Path
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to apply schema", zap.Error(err))
	}

	knowledgeService := service.NewKnowledgeService(repository.NewKnowledgeRepository(db, appLogger), &cfg.Knowledge, appLogger)

	appLogger.Info("Starting knowledge seeding...")

	seeded, err := seedKnowledge(ctx, path, *cacheFile, *force, knowledgeService, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed knowledge base", zap.Error(err))
	}
	if seeded {
		appLogger.Info("Knowledge seeding completed successfully!")
	}
}
