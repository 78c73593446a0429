package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tilemux/tilemux/internal/log"
)

// Store gives one request cycle access to the configuration document at a
// fixed path. Load parses the file once and memoizes the result; Persist
// writes a new document through to disk and swaps the cached value without
// re-reading the file.
type Store struct {
	path string
	doc  *Document
}

// NewStore creates a store for the document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the parsed document, reading the file on first use only.
func (s *Store) Load() (*Document, error) {
	if s.doc != nil {
		return s.doc, nil
	}

	doc, err := ParseFile(s.path)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return s.doc, nil
}

// Persist writes the document to disk and makes it the cached value.
func (s *Store) Persist(doc *Document) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write configuration %s: %w", s.path, err)
	}

	s.doc = doc
	log.Debugf("Persisted configuration %s", s.path)
	return nil
}

// ParseFile reads and parses a configuration document.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	doc := &Document{}
	if err := yaml.Unmarshal(content, doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}
	doc.Normalize()

	log.Debugf("Loaded configuration %s: %d layer(s), %d cache(s), %d source(s)",
		path, len(doc.Layers), len(doc.Caches), len(doc.Sources))
	return doc, nil
}
