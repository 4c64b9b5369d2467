package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"oscar/internal/models"
	"oscar/internal/oscar"

	"go.uber.org/zap"
)

const embeddedSource = "embedded"

// ProcessedFile represents a seeded document in cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about seeded documents
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

type knowledgeSeeder interface {
	Seed(ctx context.Context, kb *models.Knowledge) error
}

// loadCache loads the cache of seeded documents
func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
	}

	return cache, nil
}

// saveCache saves the cache of seeded documents
func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

func calculateHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// readSource returns the raw document and its format. An empty path means the embedded document.
func readSource(path string) ([]byte, oscar.Format, error) {
	if path == "" {
		return oscar.EmbeddedDocument(), oscar.FormatYAML, nil
	}

	format, err := oscar.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read knowledge file: %w", err)
	}
	return data, format, nil
}

// seedKnowledge stores the document at path unless the cache says the same
// content was seeded before. It reports whether anything was written.
func seedKnowledge(
	ctx context.Context,
	path string,
	cacheFile string,
	force bool,
	seeder knowledgeSeeder,
	logger *zap.Logger,
) (bool, error) {
	source := path
	if source == "" {
		source = embeddedSource
	}

	data, format, err := readSource(path)
	if err != nil {
		return false, err
	}
	hash := calculateHash(data)

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will seed anyway", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	if cached, exists := cache.ProcessedFiles[source]; exists && !force {
		if cached.FileHash == hash {
			logger.Info("Knowledge document already seeded, skipping",
				zap.String("source", source),
				zap.Time("processed_at", cached.ProcessedAt),
			)
			return false, nil
		}
		logger.Info("Knowledge document changed, reseeding",
			zap.String("source", source),
			zap.String("old_hash", cached.FileHash),
			zap.String("new_hash", hash),
		)
	}

	kb, err := oscar.Parse(data, format)
	if err != nil {
		return false, fmt.Errorf("invalid knowledge document %s: %w", source, err)
	}

	if err := seeder.Seed(ctx, kb); err != nil {
		return false, err
	}

	logger.Info("Seeded knowledge document",
		zap.String("source", source),
		zap.String("subject", kb.Subject),
		zap.Int("categories", len(kb.Categories)),
	)

	cache.ProcessedFiles[source] = ProcessedFile{
		FilePath:    source,
		FileHash:    hash,
		ProcessedAt: time.Now(),
	}
	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}

	return true, nil
}
