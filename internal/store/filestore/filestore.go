// Package filestore persists the clipboard history as a single JSON
// document on disk.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/store"
)

// FileStore is the default store.Store: one human-inspectable JSON
// document holding the full sequence, a top-level array of entries
// newest first.
type FileStore struct {
	path string
}

var _ store.Store = (*FileStore)(nil)

// New creates a FileStore writing to path. The parent directory is
// created on the first save, not here.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document path.
func (f *FileStore) Path() string {
	return f.path
}

// Load implements store.Store. A missing document yields an empty
// sequence and no error.
func (f *FileStore) Load() ([]domain.Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history document: %w", err)
	}

	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history document: %w", err)
	}
	return entries, nil
}

// Save implements store.Store, replacing the whole document atomically
// (write to a temp file, then rename). The history can hold anything
// the user has copied, so the directory and file stay private to the
// user.
func (f *FileStore) Save(entries []domain.Entry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	// A nil sequence must still serialize as an empty array, not null.
	if entries == nil {
		entries = []domain.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history document: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history document: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace history document: %w", err)
	}
	return nil
}

// Close implements store.Store. The file store keeps no open handles.
func (f *FileStore) Close() error {
	return nil
}
