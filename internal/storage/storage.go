// Package storage はアップロードされた画像の保存先です。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tile_captcha/internal/config"
)

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore は画像を保存し、公開URLを導出します。
type ObjectStore interface {
	// Put は key に body を保存し、保存先のパスを返します。同じ key は上書きされます。
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	PublicURL(path string) string
}

// NewObjectStore は設定に応じて保存先を切り替えます。
func NewObjectStore(ctx context.Context, cfg *config.StorageConfig) (ObjectStore, error) {
	logger := slog.Default()
	switch cfg.Type {
	case "s3":
		logger.Info("Initializing S3 object store...", "bucket", cfg.S3.Bucket)
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local":
		logger.Info("Initializing local object store...", "dir", cfg.Local.Dir)
		store, err := NewLocalStore(cfg.Local.Dir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage.NewObjectStore: unknown storage type %q", cfg.Type)
	}
}

// validateKey は "uploads/xxx.png" のような相対パスだけを許可します。
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
