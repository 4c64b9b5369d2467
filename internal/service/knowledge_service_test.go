package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"oscar/internal/models"
	"oscar/internal/oscar"
	"oscar/internal/repository"
	"oscar/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKnowledgeStore struct {
	stored *models.Knowledge
}

func (f *fakeKnowledgeStore) Load(context.Context) (*models.Knowledge, error) {
	if f.stored == nil {
		return nil, repository.ErrNotFound
	}
	kb := f.stored.Clone()
	return &kb, nil
}

func (f *fakeKnowledgeStore) Replace(_ context.Context, kb *models.Knowledge) error {
	clone := kb.Clone()
	f.stored = &clone
	return nil
}

func TestKnowledgeServiceEmbedded(t *testing.T) {
	svc := NewKnowledgeService(nil, &config.KnowledgeConfig{Source: config.KnowledgeEmbedded}, zap.NewNop())

	engine, err := svc.BuildEngine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Amaan", engine.Subject())
}

func TestKnowledgeServiceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, oscar.EmbeddedDocument(), 0o644))
	svc := NewKnowledgeService(nil, &config.KnowledgeConfig{Source: config.KnowledgeFile, Path: path}, zap.NewNop())

	kb, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, kb.Categories, 4)
}

func TestKnowledgeServicePostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &fakeKnowledgeStore{}
	svc := NewKnowledgeService(store, &config.KnowledgeConfig{Source: config.KnowledgePostgres}, zap.NewNop())

	_, err := svc.Load(ctx)
	assert.ErrorIs(t, err, ErrKnowledgeNotSeeded)

	kb, err := oscar.Default()
	require.NoError(t, err)
	require.NoError(t, svc.Seed(ctx, kb))

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, kb, loaded)
}

func TestKnowledgeServiceSeedRejectsInvalid(t *testing.T) {
	store := &fakeKnowledgeStore{}
	svc := NewKnowledgeService(store, &config.KnowledgeConfig{Source: config.KnowledgePostgres}, zap.NewNop())

	err := svc.Seed(context.Background(), &models.Knowledge{Subject: "Amaan"})
	assert.ErrorContains(t, err, "greetings")
	assert.Nil(t, store.stored)
}
