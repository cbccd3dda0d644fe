package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadJSON reads an i18next-style mapping. A top-level "translation" object,
// when present, holds the entries. Non-string values are ignored.
func LoadJSON(r io.Reader, opts ...Option) (*Catalog, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding translations: %w", err)
	}
	return New(flatten(raw), opts...), nil
}

// LoadYAML is LoadJSON for YAML documents.
func LoadYAML(r io.Reader, opts ...Option) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding translations: %w", err)
	}
	return New(flatten(raw), opts...), nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(name string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return LoadJSON(f, opts...)
	case ".yaml", ".yml":
		return LoadYAML(f, opts...)
	}
	return nil, fmt.Errorf("unsupported translation file type: %s", name)
}

func flatten(raw map[string]any) map[string]string {
	if inner, ok := raw["translation"].(map[string]any); ok {
		raw = inner
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
