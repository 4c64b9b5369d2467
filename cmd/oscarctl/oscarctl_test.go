package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oscar/internal/oscar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *oscar.Engine {
	t.Helper()
	kb, err := oscar.Default()
	require.NoError(t, err)
	engine, err := oscar.NewEngine(kb, oscar.WithPicker(oscar.FirstPicker{}))
	require.NoError(t, err)
	return engine
}

func TestRunAsk(t *testing.T) {
	engine := testEngine(t)

	var out bytes.Buffer
	require.NoError(t, runAsk(&out, engine, "How can I contact Amaan?"))
	assert.Equal(t, engine.GenerateResponse("How can I contact Amaan?")+"\n", out.String())
}

func TestRunMatch(t *testing.T) {
	engine := testEngine(t)

	var out bytes.Buffer
	require.NoError(t, runMatch(&out, engine, "email", true))

	var matches []oscar.MatchResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &matches))
	assert.Equal(t, engine.FindRelevantKnowledge("email"), matches)

	out.Reset()
	require.NoError(t, runMatch(&out, engine, "xyzzy", false))
	assert.Equal(t, "no matches\n", out.String())

	out.Reset()
	require.NoError(t, runMatch(&out, engine, "email", false))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(matches)+1)
	assert.True(t, strings.HasPrefix(lines[0], "SCORE"))
	assert.Contains(t, lines[1], "Personal/Contact")
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.yaml")

	var exported bytes.Buffer
	require.NoError(t, runExport(&exported, "", oscar.FormatJSON))
	require.NoError(t, os.WriteFile(good, exported.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("subject: \"\"\ngreetings: []\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, runValidate(&out, nil))
	assert.Equal(t, "built-in document: ok\n", out.String())

	out.Reset()
	require.NoError(t, runValidate(&out, []string{good}))
	assert.Equal(t, good+": ok\n", out.String())

	out.Reset()
	err := runValidate(&out, []string{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out.String(), bad+": ")
	assert.Contains(t, out.String(), "subject is required")
}

func TestRunExportRoundTrips(t *testing.T) {
	for _, format := range []oscar.Format{oscar.FormatYAML, oscar.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runExport(&out, "", format))

			kb, err := oscar.Parse(out.Bytes(), format)
			require.NoError(t, err)

			want, err := oscar.Default()
			require.NoError(t, err)
			assert.Equal(t, want, kb)
		})
	}

	var out bytes.Buffer
	assert.Error(t, runExport(&out, "", oscar.Format("toml")))
}

func TestRunTopics(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runTopics(&out, testEngine(t)))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Personal\n  Background ("))
	assert.Contains(t, text, "Achievements\n  Awards (")
}
