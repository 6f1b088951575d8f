package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore implements MediaStore on a local directory. Files are served
// by the HTTP layer under /media/.
type LocalStore struct {
	root string
}

// NewLocalStore ensures the media directory exists and returns a store
// rooted at it.
func NewLocalStore(root string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("local storage: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Save writes the content to disk and returns its serving path.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	rel, err := s.clean(name)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media subdirectory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close media file: %w", err)
	}

	return "/media/" + rel, nil
}

// Remove deletes the named file. A missing file is treated as success.
func (s *LocalStore) Remove(_ context.Context, name string) error {
	rel, err := s.clean(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

// Dir returns the root directory files are stored under.
func (s *LocalStore) Dir() string {
	return s.root
}

// clean rejects names that would escape the media root.
func (s *LocalStore) clean(name string) (string, error) {
	rel := path.Clean(strings.TrimLeft(name, "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("local storage: invalid name %q", name)
	}
	return rel, nil
}

var _ MediaStore = (*LocalStore)(nil)
