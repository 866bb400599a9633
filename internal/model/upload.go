// internal/model/upload.go
package model

// UploadResponse は画像アップロード成功時のレスポンス
type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
