package storage

import (
	"context"
	"path/filepath"
	"strings"

	"blogr/internal/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Storage persists processed profile photos. The returned reference is what
// gets stored on the user row: a path relative to the static directory for
// local storage, or an absolute URL for object storage.
type Storage interface {
	SavePhoto(ctx context.Context, name string, data []byte, contentType string) (string, error)
	DeletePhoto(ctx context.Context, ref string) error
}

// New returns the backend selected by cfg.Media.Backend.
func New(cfg *config.Config) (Storage, error) {
	if cfg.Media.Backend == "minio" {
		return NewMinIOClient(cfg)
	}
	return NewLocalStorage(cfg.Media.StaticDir, cfg.Media.MediaDir)
}

// SanitizeFilename reduces an uploaded filename to a lowercase slug with its
// extension, e.g. "My Holiday Pic.JPG" -> "my-holiday-pic.jpg".
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(name))
	base := slug.Make(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "photo"
	}
	if ext == "." || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return base + ext
}

// UniqueName prefixes the sanitized name so uploads never collide.
func UniqueName(name string) string {
	return uuid.NewString() + "_" + SanitizeFilename(name)
}

// PhotoURL turns a stored reference into something usable in an img src.
func PhotoURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "/static/" + strings.TrimPrefix(filepath.ToSlash(ref), "/")
}
