package service

import (
	"context"
	"errors"
	"time"

	"tile_captcha/internal/config"
	"tile_captcha/internal/middleware"
	"tile_captcha/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService は管理者用のアクセストークンを発行します。
// 検証側は middleware.AdminAuthMiddleware です。
type AuthService interface {
	IssueAdminToken(ctx context.Context, subject string) (string, error)
}

type authService struct {
	cfg *config.Config
	now func() time.Time
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(cfg *config.Config, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{cfg: cfg, now: now}
}

func (s *authService) IssueAdminToken(ctx context.Context, subject string) (string, error) {
	logger := middleware.GetLogger(ctx).With("subject", subject)

	if subject == "" {
		return "", model.NewAppError("VALIDATION_ERROR", "Subject is required.", "subject", model.ErrInvalidInput)
	}
	if s.cfg.Auth.SecretKey == "" {
		logger.Error("Cannot issue admin token: auth.secret_key is not set")
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "Token secret is not configured.", "", errors.New("empty secret key"))
	}

	now := s.now()
	claims := &jwt.RegisteredClaims{
		Issuer:    config.AppName,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.Auth.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate token.", "", err)
	}

	logger.Info("Admin token issued", "expires_at", claims.ExpiresAt.Time)
	return signedToken, nil
}
