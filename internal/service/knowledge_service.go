package service

import (
	"context"
	"errors"
	"fmt"

	"oscar/internal/models"
	"oscar/internal/oscar"
	"oscar/internal/repository"
	"oscar/pkg/config"

	"go.uber.org/zap"
)

var ErrKnowledgeNotSeeded = errors.New("knowledge base has not been seeded")

type KnowledgeStore interface {
	Load(ctx context.Context) (*models.Knowledge, error)
	Replace(ctx context.Context, kb *models.Knowledge) error
}

type KnowledgeService struct {
	store  KnowledgeStore
	config *config.KnowledgeConfig
	logger *zap.Logger
}

// NewKnowledgeService wires the configured knowledge source. store may be nil
// unless the source is postgres or Seed is used.
func NewKnowledgeService(store KnowledgeStore, cfg *config.KnowledgeConfig, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// Load reads and validates the knowledge document from the configured source.
func (s *KnowledgeService) Load(ctx context.Context) (*models.Knowledge, error) {
	var (
		kb  *models.Knowledge
		err error
	)

	switch s.config.Source {
	case config.KnowledgeEmbedded, "":
		kb, err = oscar.Default()
	case config.KnowledgeFile:
		kb, err = oscar.LoadFile(s.config.Path)
	case config.KnowledgePostgres:
		if s.store == nil {
			return nil, errors.New("knowledge store is not configured")
		}
		kb, err = s.store.Load(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKnowledgeNotSeeded
		}
		if err == nil {
			err = kb.Validate()
		}
	default:
		return nil, fmt.Errorf("unknown knowledge source %q", s.config.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge from %s: %w", s.config.Source, err)
	}

	return kb, nil
}

// BuildEngine loads the document once and returns the engine that answers from it.
func (s *KnowledgeService) BuildEngine(ctx context.Context, opts ...oscar.Option) (*oscar.Engine, error) {
	kb, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	engine, err := oscar.NewEngine(kb, opts...)
	if err != nil {
		return nil, err
	}

	facts := 0
	for _, category := range kb.Categories {
		for _, sub := range category.Subcategories {
			facts += len(sub.Facts)
		}
	}
	s.logger.Info("Knowledge base loaded",
		zap.String("source", s.config.Source),
		zap.String("subject", kb.Subject),
		zap.Int("categories", len(kb.Categories)),
		zap.Int("facts", facts),
	)

	return engine, nil
}

// Seed validates kb and stores it for KNOWLEDGE_SOURCE=postgres.
func (s *KnowledgeService) Seed(ctx context.Context, kb *models.Knowledge) error {
	if s.store == nil {
		return errors.New("knowledge store is not configured")
	}
	if err := kb.Validate(); err != nil {
		return fmt.Errorf("invalid knowledge document: %w", err)
	}
	if err := s.store.Replace(ctx, kb); err != nil {
		return fmt.Errorf("failed to seed knowledge: %w", err)
	}
	return nil
}
