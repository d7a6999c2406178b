// Package catalog persists the gallery's metadata as one JSON document and
// serializes every mutation against it.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"mediastash/internal/models"
)

// Store owns the catalog document. Construct exactly one per document path
// at process start; the internal mutex is the only synchronization point for
// writers. Reads load the document fresh from disk and rely on the atomic
// rename in write() never exposing a half-written file.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	s := &Store{path: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(models.NewCatalog()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Read returns the current document. A missing or unreadable document yields
// a fresh empty one rather than an error, so a corrupted file degrades the
// gallery to empty instead of taking every request down with it.
func (s *Store) Read() (models.Catalog, error) {
	return s.load(), nil
}

// Mutate applies fn to a freshly loaded document and persists the result
// before returning. At most one mutation runs at a time; an error from fn
// aborts the mutation with nothing written.
func (s *Store) Mutate(fn func(*models.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if err := fn(&doc); err != nil {
		return err
	}

	return s.write(doc)
}

func (s *Store) load() models.Catalog {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("catalog unreadable, serving empty document", "path", s.path, "error", err)
		}
		return models.NewCatalog()
	}

	var doc models.Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("catalog corrupted, serving empty document", "path", s.path, "error", err)
		return models.NewCatalog()
	}

	// Normalize nil slices from hand-edited or older documents.
	if doc.Videos == nil {
		doc.Videos = []models.Video{}
	}
	if doc.Images == nil {
		doc.Images = []models.Image{}
	}
	if doc.Pastes == nil {
		doc.Pastes = []models.Paste{}
	}

	return doc
}

// write commits the full document via temp-file-and-rename so a crash
// mid-write can never leave a truncated catalog behind.
func (s *Store) write(doc models.Catalog) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*")
	if err != nil {
		return fmt.Errorf("failed to create catalog temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	return nil
}
