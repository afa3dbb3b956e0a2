package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes photos into a media directory served under /static.
type LocalStorage struct {
	mediaDir string
	prefix   string
}

func NewLocalStorage(staticDir, mediaDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	prefix, err := filepath.Rel(staticDir, mediaDir)
	if err != nil || strings.HasPrefix(prefix, "..") {
		return nil, fmt.Errorf("media dir %q must live under static dir %q", mediaDir, staticDir)
	}

	return &LocalStorage{mediaDir: mediaDir, prefix: filepath.ToSlash(prefix)}, nil
}

func (s *LocalStorage) SavePhoto(_ context.Context, name string, data []byte, _ string) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.mediaDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}

	return path.Join(s.prefix, name), nil
}

// DeletePhoto removes a file saved by SavePhoto. Unknown references and
// already missing files are not errors.
func (s *LocalStorage) DeletePhoto(_ context.Context, ref string) error {
	if ref == "" || !strings.HasPrefix(ref, s.prefix+"/") {
		return nil
	}

	err := os.Remove(filepath.Join(s.mediaDir, filepath.Base(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
