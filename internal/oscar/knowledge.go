package oscar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"oscar/internal/models"

	"gopkg.in/yaml.v3"
)

// Format names a knowledge document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed data/knowledge.yaml
var embeddedKnowledge []byte

// EmbeddedDocument returns the raw bytes of the built-in knowledge document.
func EmbeddedDocument() []byte {
	return bytes.Clone(embeddedKnowledge)
}

// Default parses and validates the built-in knowledge document.
func Default() (*models.Knowledge, error) {
	kb, err := Parse(embeddedKnowledge, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded knowledge: %w", err)
	}
	return kb, nil
}

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported knowledge file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads, parses and validates a knowledge document from disk.
func LoadFile(path string) (*models.Knowledge, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	kb, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}

// Parse decodes a knowledge document and validates it. Unknown fields are rejected
// so that a misspelled key does not silently drop content.
func Parse(data []byte, format Format) (*models.Knowledge, error) {
	var kb models.Knowledge

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&kb); err != nil {
			return nil, fmt.Errorf("failed to parse knowledge yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&kb); err != nil {
			return nil, fmt.Errorf("failed to parse knowledge json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported knowledge format %q", format)
	}

	if err := kb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid knowledge document: %w", err)
	}
	return &kb, nil
}

// Marshal encodes a knowledge document in the given format.
func Marshal(kb *models.Knowledge, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(kb); err != nil {
			return nil, fmt.Errorf("failed to encode knowledge yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(kb, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported knowledge format %q", format)
	}
}
