package mcp

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bornholm/effortcalc/internal/document"
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/store"
)

// ChrootedStore is a store that is restricted to a specific directory
type ChrootedStore struct {
	root *os.Root
}

// NewChrootedStore creates a new store restricted to the given directory
func NewChrootedStore(dir string) (*ChrootedStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}

	return &ChrootedStore{
		root: root,
	}, nil
}

// Close closes the root directory
func (s *ChrootedStore) Close() error {
	return s.root.Close()
}

// writeFile replaces a file within the chrooted directory through a temporary file
func (s *ChrootedStore) writeFile(path string, data []byte) error {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")

	f, err := s.root.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		s.root.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		s.root.Remove(tmpPath)
		return err
	}

	return s.root.Rename(tmpPath, path)
}

// ReadDocument returns the raw content of a document
func (s *ChrootedStore) ReadDocument(path string) ([]byte, error) {
	return fs.ReadFile(s.root.FS(), fsPath(path))
}

// fsPath converts a path to the slash-separated form io/fs expects
func fsPath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// LoadState reads the document at path and merges it onto base
func (s *ChrootedStore) LoadState(path string, base *model.EstimationState) (*model.EstimationState, error) {
	data, err := s.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	state, err := document.Deserialize(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	state.Recompute()

	return state, nil
}

// SaveState saves the state document to path
func (s *ChrootedStore) SaveState(path string, state *model.EstimationState) error {
	data, err := document.Serialize(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := s.root.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return s.writeFile(path, data)
}

// ListDocuments lists all estimation documents in a directory
func (s *ChrootedStore) ListDocuments(dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.root.FS(), fsPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), store.DocumentExtension) {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// DeleteDocument deletes a document
func (s *ChrootedStore) DeleteDocument(path string) error {
	return s.root.Remove(path)
}
