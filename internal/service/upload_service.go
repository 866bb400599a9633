//go:generate mockery --name UploadService --output ./mocks --outpkg mocks --case=underscore --structname MockUploadService
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"tile_captcha/internal/middleware"
	"tile_captcha/internal/model"
	"tile_captcha/internal/storage"

	"github.com/google/uuid"
)

// UploadPrefix はアップロード画像を置くキーの接頭辞です。
const UploadPrefix = "uploads/"

type UploadService interface {
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (*model.UploadResponse, error)
}

type uploadService struct {
	store    storage.ObjectStore
	maxBytes int64
	newID    func() string
}

func NewUploadService(store storage.ObjectStore, maxBytes int64) UploadService {
	return &uploadService{
		store:    store,
		maxBytes: maxBytes,
		newID:    uuid.NewString,
	}
}

func errInvalidFileType() error {
	return model.NewAppError("INVALID_FILE_TYPE", "Only JPEG, PNG, GIF, WebP, AVIF or BMP images can be uploaded.", "file", model.ErrInvalidInput)
}

func errFileTooLarge(maxBytes int64) error {
	return model.NewAppError("FILE_TOO_LARGE",
		fmt.Sprintf("File size must be less than %dMB", maxBytes>>20), "file", model.ErrPayloadTooLarge)
}

// imageExtensions は受け付ける画像形式と保存時の拡張子です。
// svg はスクリプトを含められるので受け付けない。
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
	"image/bmp":  ".bmp",
}

// ObjectKey は UUID と検証済みのメディアタイプからキーを作ります。
// 元のファイル名の拡張子は使いません (配信時の Content-Type は拡張子で決まるため)。
func ObjectKey(id, mediaType string) (string, bool) {
	ext, ok := imageExtensions[mediaType]
	if !ok {
		return "", false
	}
	return UploadPrefix + id + ext, true
}

func (s *uploadService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (*model.UploadResponse, error) {
	logger := middleware.GetLogger(ctx)

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errInvalidFileType()
	}
	mediaType = strings.ToLower(mediaType)
	if _, ok := imageExtensions[mediaType]; !ok {
		logger.Warn("Upload rejected: unsupported content type", "filename", filename, "content_type", contentType)
		return nil, errInvalidFileType()
	}

	// 上限+1バイトまで読んで超過を判定する
	buf, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("uploadService.UploadImage: read body: %w: %w", model.ErrInvalidInput, err)
	}
	if int64(len(buf)) > s.maxBytes {
		logger.Warn("Upload rejected: file too large", "filename", filename, "max_bytes", s.maxBytes)
		return nil, errFileTooLarge(s.maxBytes)
	}
	if len(buf) == 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "File is empty.", "file", model.ErrInvalidInput)
	}

	key, _ := ObjectKey(s.newID(), mediaType)
	path, err := s.store.Put(ctx, key, mediaType, bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, storeError("uploadService.UploadImage", err)
	}

	logger.Info("Image uploaded", "path", path, "size", len(buf), "content_type", mediaType)
	return &model.UploadResponse{
		Path: path,
		URL:  s.store.PublicURL(path),
	}, nil
}
