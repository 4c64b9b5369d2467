package oscar

import (
	"sort"
	"strings"
)

// Fixed scores for the name tiers. Keyword matches score the number of keywords hit.
const (
	SubcategoryNameScore = 2
	CategoryNameScore    = 1
)

// MatchResult is one fact that a query hit, tagged with where it came from.
// Score is a rank signal, not a probability.
type MatchResult struct {
	Score       int    `json:"score"`
	Text        string `json:"text"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type indexedCategory struct {
	name          string
	lowerName     string
	subcategories []indexedSubcategory
}

type indexedSubcategory struct {
	name      string
	lowerName string
	facts     []string
	keywords  []string
}

// FindRelevantKnowledge runs the keyword, subcategory-name and category-name tiers over
// the whole knowledge base and returns every hit sorted by score, highest first.
// A fact that qualifies under several tiers is returned once per tier. Equal scores keep
// discovery order: category, then subcategory, then fact.
func (e *Engine) FindRelevantKnowledge(query string) []MatchResult {
	q := strings.ToLower(query)
	matches := make([]MatchResult, 0)

	for _, category := range e.categories {
		for _, sub := range category.subcategories {
			hits := 0
			for _, keyword := range sub.keywords {
				if strings.Contains(q, keyword) {
					hits++
				}
			}
			if hits > 0 {
				matches = appendFacts(matches, category.name, sub, hits)
			}

			if strings.Contains(q, sub.lowerName) {
				matches = appendFacts(matches, category.name, sub, SubcategoryNameScore)
			}
		}

		if strings.Contains(q, category.lowerName) {
			for _, sub := range category.subcategories {
				matches = appendFacts(matches, category.name, sub, CategoryNameScore)
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func appendFacts(matches []MatchResult, category string, sub indexedSubcategory, score int) []MatchResult {
	for _, fact := range sub.facts {
		matches = append(matches, MatchResult{
			Score:       score,
			Text:        fact,
			Category:    category,
			Subcategory: sub.name,
		})
	}
	return matches
}
