package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"tile_captcha/internal/model"

	"github.com/go-chi/chi/v5"
)

// maxJSONBodyBytes はJSONリクエストボディの上限
const maxJSONBodyBytes = 1 << 20

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドはエラーにします。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return model.NewAppError("PAYLOAD_TOO_LARGE", "Request body is too large.", "", model.ErrPayloadTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return model.NewAppError("INVALID_REQUEST_BODY", "Request body is empty.", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_REQUEST_BODY", "Request body is not valid JSON: "+err.Error(), "", model.ErrInvalidInput)
	}
	return nil
}

// IntURLParam は chi の URL パラメータを整数として取得します。
func IntURLParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewAppError("INVALID_URL_PARAM", "'"+name+"' must be an integer.", name, model.ErrInvalidInput)
	}
	return v, nil
}

// OptionalIntQuery はクエリパラメータを整数として取得します。指定がなければ nil を返します。
func OptionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, model.NewAppError("INVALID_QUERY_PARAM", "'"+name+"' must be an integer.", name, model.ErrInvalidInput)
	}
	return &v, nil
}
