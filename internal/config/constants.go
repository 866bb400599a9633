// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "tile_captcha"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort      = ":8080"
	DefaultLogLevel        = "info"
	DefaultTimeZone        = "Local"
	DefaultStorageType     = "local"
	DefaultLocalStorageDir = "./uploads"
	DefaultMaxUploadBytes  = 10 << 20 // 10 MiB
	DefaultTokenTTL        = 12 * time.Hour
)

// MediaPathPrefix はローカルストレージの画像を配信するパス
const MediaPathPrefix = "/media/"
