package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oscar/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Only one knowledge document is stored; it always has this id.
const knowledgeDocumentID = 1

type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// Replace swaps the stored document for kb in a single transaction.
func (r *KnowledgeRepository) Replace(ctx context.Context, kb *models.Knowledge) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	builders := replaceKnowledgeQueries(kb, time.Now())
	for _, b := range builders {
		sql, args, err := b.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to store knowledge: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit knowledge: %w", err)
	}

	r.logger.Info("Knowledge document stored",
		zap.String("subject", kb.Subject),
		zap.Int("categories", len(kb.Categories)),
	)
	return nil
}

// Load reads the stored document. It returns ErrNotFound if nothing was seeded.
func (r *KnowledgeRepository) Load(ctx context.Context) (*models.Knowledge, error) {
	kb, err := r.loadDocument(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := r.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	kb.Categories = categories

	return kb, nil
}

func (r *KnowledgeRepository) loadDocument(ctx context.Context) (*models.Knowledge, error) {
	query := squirrel.Select("subject", "greeting_terms", "capability_terms", "greetings", "fallbacks",
		"topic_introductions", "suggestions").
		From("knowledge_documents").
		Where(squirrel.Eq{"id": knowledgeDocumentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var kb models.Knowledge
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&kb.Subject, &kb.GreetingTerms, &kb.CapabilityTerms, &kb.Greetings, &kb.Fallbacks,
		&kb.TopicIntroductions, &kb.Suggestions,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge document: %w", err)
	}
	return &kb, nil
}

func (r *KnowledgeRepository) loadCategories(ctx context.Context) ([]models.KnowledgeCategory, error) {
	sql, args, err := loadSubcategoriesQuery().ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.KnowledgeCategory, 0)
	for rows.Next() {
		var (
			category string
			sub      *string
			facts    []string
			keywords []string
		)
		if err := rows.Scan(&category, &sub, &facts, &keywords); err != nil {
			return nil, err
		}

		if n := len(categories); n == 0 || categories[n-1].Category != category {
			categories = append(categories, models.KnowledgeCategory{
				Category:      category,
				Subcategories: make([]models.Subcategory, 0),
			})
		}
		if sub == nil {
			continue
		}
		last := &categories[len(categories)-1]
		last.Subcategories = append(last.Subcategories, models.Subcategory{
			Name:     *sub,
			Facts:    facts,
			Keywords: keywords,
		})
	}

	return categories, rows.Err()
}

// loadSubcategoriesQuery yields one row per subcategory in document order, plus a row
// with NULL subcategory columns for a category that has none.
func loadSubcategoriesQuery() squirrel.SelectBuilder {
	return squirrel.Select("c.name", "s.name", "s.facts", "s.keywords").
		From("knowledge_categories c").
		LeftJoin("knowledge_subcategories s ON s.category = c.name").
		OrderBy("c.position ASC", "s.position ASC").
		PlaceholderFormat(squirrel.Dollar)
}

type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

func replaceKnowledgeQueries(kb *models.Knowledge, now time.Time) []sqlizer {
	queries := []sqlizer{
		squirrel.Delete("knowledge_subcategories").PlaceholderFormat(squirrel.Dollar),
		squirrel.Delete("knowledge_categories").PlaceholderFormat(squirrel.Dollar),
		squirrel.Delete("knowledge_documents").PlaceholderFormat(squirrel.Dollar),
		squirrel.Insert("knowledge_documents").
			Columns("id", "subject", "greeting_terms", "capability_terms", "greetings", "fallbacks",
				"topic_introductions", "suggestions", "updated_at").
			Values(knowledgeDocumentID, kb.Subject, nonNil(kb.GreetingTerms), nonNil(kb.CapabilityTerms),
				nonNil(kb.Greetings), nonNil(kb.Fallbacks), nonNil(kb.TopicIntroductions), nonNil(kb.Suggestions), now).
			PlaceholderFormat(squirrel.Dollar),
	}

	if len(kb.Categories) == 0 {
		return queries
	}

	categories := squirrel.Insert("knowledge_categories").
		Columns("name", "position").
		PlaceholderFormat(squirrel.Dollar)
	subcategories := squirrel.Insert("knowledge_subcategories").
		Columns("category", "name", "position", "facts", "keywords").
		PlaceholderFormat(squirrel.Dollar)
	hasSubcategories := false

	for i, category := range kb.Categories {
		categories = categories.Values(category.Category, i)
		for j, sub := range category.Subcategories {
			subcategories = subcategories.Values(category.Category, sub.Name, j, nonNil(sub.Facts), nonNil(sub.Keywords))
			hasSubcategories = true
		}
	}

	queries = append(queries, categories)
	if hasSubcategories {
		queries = append(queries, subcategories)
	}
	return queries
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
