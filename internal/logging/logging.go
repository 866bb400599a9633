// Package logging は設定に基づいてアプリケーション全体の slog ロガーを組み立てます。
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"tile_captcha/internal/config"
)

// ParseLevel は config.yaml のログレベル文字列を slog.Level に変換します。不明な場合は Info。
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New はロガーを作成します。
// APP_ENV=dev の場合は tint、それ以外は JSON。log.file が設定されていればローテーション付きでファイルにも出力します。
// 戻り値の io.Closer はファイル出力を閉じるためのもので、ファイル出力がなければ nil です。
func New(cfg config.LogConfig, appEnv string, stderr io.Writer) (*slog.Logger, io.Closer) {
	logLevel := new(slog.LevelVar)
	level, ok := ParseLevel(cfg.Level)
	logLevel.Set(level)

	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}

	var closer io.Closer
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays, // days
			Compress:   true,
		}
		fileHandler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: logLevel, AddSource: true})
		handler = fanout{handler, fileHandler}
		closer = rotator
	}

	logger := slog.New(handler)
	if !ok {
		logger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Level))
	}
	return logger, closer
}

// NewDefault は環境変数 APP_ENV を見て New を呼び出します。
func NewDefault(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	return New(cfg, os.Getenv("APP_ENV"), os.Stderr)
}

// fanout は複数のハンドラへ同じレコードを書き込みます。
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
