package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage writes blobs under a local directory that the HTTP server
// exposes at /public.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

// resolve maps a public URL path onto the local filesystem, rejecting
// anything that would escape the root directory.
func (s *FileStorage) resolve(path string) (string, error) {
	rel := strings.TrimPrefix(path, "/public/")
	rel = filepath.Clean(filepath.FromSlash(rel))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid storage path: %s", path)
	}
	return filepath.Join(s.root, rel), nil
}

func (s *FileStorage) Save(ctx context.Context, path string, r io.Reader) error {
	name, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("error creating storage dir: %w", err)
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	return nil
}

func (s *FileStorage) Delete(ctx context.Context, path string) error {
	name, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing file: %w", err)
	}

	return nil
}
