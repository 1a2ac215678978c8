package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const LocalURLPrefix = "/media/"

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid media key {%s}", key)
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return LocalURLPrefix + key
}

// Handler serves saved files under LocalURLPrefix.
func (s *LocalStorage) Handler() http.Handler {
	return http.StripPrefix(LocalURLPrefix, http.FileServer(http.Dir(s.basePath)))
}
