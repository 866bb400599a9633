// internal/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"tile_captcha/internal/model"
	"tile_captcha/internal/service"
	"tile_captcha/internal/webutil"
)

// multipart のヘッダー分の余裕
const multipartOverhead = 1 << 20

type UploadHandler struct {
	service  service.UploadService
	maxBytes int64
	logger   *slog.Logger
}

func NewUploadHandler(s service.UploadService, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		service:  s,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (h *UploadHandler) fileTooLarge() error {
	return model.NewAppError("FILE_TOO_LARGE",
		fmt.Sprintf("File size must be less than %dMB", h.maxBytes>>20), "file", model.ErrPayloadTooLarge)
}

// PostUpload は multipart フォームの "file" フィールドを保存し、パスと公開URLを返します。
func (h *UploadHandler) PostUpload(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostUpload"))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			logger.Warn("Upload rejected: request body too large", slog.Int64("limit", maxErr.Limit))
			webutil.HandleError(w, logger, h.fileTooLarge())
			return
		}
		logger.Warn("Failed to read multipart file", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, model.NewAppError("INVALID_REQUEST_BODY",
			"Multipart form with a 'file' field is required.", "file", model.ErrInvalidInput))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		logger.Warn("Upload rejected: file too large", slog.Int64("size", header.Size))
		webutil.HandleError(w, logger, h.fileTooLarge())
		return
	}

	resp, err := h.service.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		logger.Warn("Error uploading image in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Image uploaded successfully", slog.String("path", resp.Path))
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}
