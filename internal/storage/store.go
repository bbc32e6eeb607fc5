// Package storage persists whole structured documents by name.
//
// Every document is read and written in full. There is no locking and no
// atomic replace, so two processes saving the same name may lose updates and
// a crash mid-save may leave a truncated document behind.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conorfennell/studydeck/internal/domain"
)

// Store loads and saves documents by name.
type Store interface {
	// Load decodes the document saved under name into dst. When nothing was
	// ever saved it returns false and leaves dst untouched, so whatever the
	// caller put in dst acts as the default.
	Load(name string, dst any) (bool, error)
	// Save persists doc under name.
	Save(name string, doc any) error
}

// FileStore keeps one JSON file per document under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created lazily
// on the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file backing name. Absolute names are used as given.
func (s *FileStore) Path(name string) string {
	p := filepath.FromSlash(name)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// Load implements Store.
func (s *FileStore) Load(name string, dst any) (bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read document %s: %w", name, err)
	}
	if err := decode(name, data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Save implements Store.
func (s *FileStore) Save(name string, doc any) error {
	data, err := encode(name, doc)
	if err != nil {
		return err
	}
	p := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}
	return nil
}

func encode(name string, doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// decode reports shape mismatches as domain.ErrFormat; callers rely on that to
// tell a corrupt document from an I/O failure.
func decode(name string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: document %s: %v", domain.ErrFormat, name, err)
	}
	return nil
}
