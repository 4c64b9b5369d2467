package oscar

import (
	"os"
	"path/filepath"
	"testing"

	"oscar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKnowledge(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Amaan", kb.Subject)
	assert.Len(t, kb.Greetings, 5)
	assert.Len(t, kb.Fallbacks, 5)
	assert.Len(t, kb.TopicIntroductions, 4)
	assert.Len(t, kb.Suggestions, 10)

	var names []string
	for _, c := range kb.Categories {
		names = append(names, c.Category)
	}
	assert.Equal(t, []string{"Personal", "Professional", "Projects", "Achievements"}, names)
	assert.Len(t, kb.Categories[1].Subcategories[0].Facts, 15)
}

func TestLoadFileJSON(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	data, err := Marshal(kb, FormatJSON)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "knowledge.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, kb, loaded)
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "knowledge.toml"))
	assert.ErrorContains(t, err, "unsupported knowledge file extension")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	doc := []byte(`
subject: Amaan
greetings: [hi]
fallbacks: [hmm]
topic_introductions: [ask me]
categories:
  - category: Personal
    subcategories:
      - name: Background
        fact: [misspelled]
`)
	_, err := Parse(doc, FormatYAML)
	assert.Error(t, err)
}

func TestValidateReportsAllProblems(t *testing.T) {
	kb := &models.Knowledge{
		Greetings:          []string{"hi", " "},
		TopicIntroductions: []string{"ask me"},
		Categories: []models.KnowledgeCategory{
			{
				Category: "Personal",
				Subcategories: []models.Subcategory{
					{Name: "Background", Facts: []string{"a"}, Keywords: []string{"about", ""}},
					{Name: "Background", Facts: []string{"b"}},
					{Name: "Empty"},
				},
			},
		},
	}

	err := kb.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"subject is required",
		"fallbacks: at least one entry is required",
		"greetings[1]: blank entry",
		"blank keyword",
		`duplicate subcategory "Background"`,
	} {
		assert.ErrorContains(t, err, want)
	}
	assert.NotContains(t, err.Error(), "Empty")
}
