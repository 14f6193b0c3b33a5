package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that escape the bucket root
var ErrInvalidKey = errors.New("clave de archivo inválida")

// LocalStorage is an object bucket on the local filesystem. Objects are
// addressed by slash-separated keys such as "vehicles/2024/05/<uuid>.jpg".
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new local storage instance. baseURL is the
// public prefix objects are served from (e.g. "https://api.example.com/files").
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// NewKey builds a unique key under prefix, organized by year/month.
func NewKey(prefix, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(prefix, time.Now().Format("2006/01"), uuid.NewString()+ext)
}

// Put stores data under key, replacing any previous object.
func (s *LocalStorage) Put(key string, data []byte) error {
	full, err := s.FullPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete removes an object. Missing objects are not an error.
func (s *LocalStorage) Delete(key string) error {
	full, err := s.FullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FullPath resolves a key inside the bucket root.
func (s *LocalStorage) FullPath(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.basePath, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// URL returns the public URL of an object key.
func (s *LocalStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// ImageContentTypes maps the accepted image MIME types to file extensions
func ImageContentTypes() map[string]string {
	return map[string]string{
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}
}

// ImageExtension returns the extension for an accepted image type
func ImageExtension(contentType string) (string, bool) {
	ext, ok := ImageContentTypes()[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}
