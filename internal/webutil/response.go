// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tile_captcha/internal/model"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
// 下位レイヤーのエラーはここで必ず HTTP ステータスに変換されます。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError
	if statusCode < http.StatusInternalServerError && errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: appErr.Detail}
	} else {
		errResp = model.APIErrorResponse{Error: defaultDetail(statusCode)}
	}

	if statusCode >= http.StatusInternalServerError {
		// クライアントには汎用的なメッセージ、ログには詳細を出す
		logger.Error("Unhandled error", slog.Any("error", err))
	}

	RespondWithJSON(w, statusCode, errResp, logger)
}

func defaultDetail(statusCode int) model.ErrorDetail {
	switch statusCode {
	case http.StatusNotFound:
		return model.ErrorDetail{Code: "NOT_FOUND", Message: "Resource not found."}
	case http.StatusBadRequest:
		return model.ErrorDetail{Code: "INVALID_INPUT", Message: "Invalid input."}
	case http.StatusRequestEntityTooLarge:
		return model.ErrorDetail{Code: "PAYLOAD_TOO_LARGE", Message: "Payload too large."}
	case http.StatusUnauthorized:
		return model.ErrorDetail{Code: "UNAUTHORIZED", Message: "Authentication required."}
	case http.StatusForbidden:
		return model.ErrorDetail{Code: "FORBIDDEN", Message: "Forbidden."}
	default:
		return model.ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: "An internal server error occurred."}
	}
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
// ErrInternalServer で包まれたエラーは、原因が何であっても 500 です。
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrInternalServer):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrNoPuzzleAvailable):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger != nil {
			logger.Error("Error marshaling JSON response", slog.Any("error", err))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to build response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
