package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tile_captcha/internal/middleware"
)

// LocalStore は開発用にローカルディレクトリへ画像を保存します。
// 保存したファイルはサーバーの /media/ 以下で配信されます。
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("storage.NewLocalStore: dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

// Dir は配信用のルートディレクトリです。
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	logger := middleware.GetLogger(ctx)
	if err := validateKey(key); err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("LocalStore.Put: %w", err)
	}

	// 書き込み途中のファイルが配信されないよう一時ファイルから rename する
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("LocalStore.Put: %w", err)
	}
	written, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		logger.Error("Failed to write object to local store", "error", err, "key", key)
		return "", fmt.Errorf("LocalStore.Put: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("LocalStore.Put: %w", err)
	}

	logger.Info("Object stored locally", "key", key, "size", written, "content_type", contentType)
	return key, nil
}

func (s *LocalStore) PublicURL(path string) string {
	return joinURL(s.baseURL, path)
}
