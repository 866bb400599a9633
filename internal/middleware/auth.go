package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tile_captcha/internal/model"
	"tile_captcha/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const adminSubjectKey ctxKey = "adminSubject"

const authRealm = "tile_captcha"

// AdminAuthMiddleware は Authorization ヘッダーの Bearer トークン (HS256) を検証するミドルウェアです。
// パズルを変更するルートにだけ適用します。enabled が false の場合は何もしません。
func AdminAuthMiddleware(enabled bool, secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				unauthorized(w, logger, "", model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrUnauthorized))
				return
			}

			// "Bearer {token}" の形式を検証
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				unauthorized(w, logger, "invalid_request", model.NewAppError("UNAUTHORIZED", "Authorization header must be 'Bearer <token>'.", "", model.ErrUnauthorized))
				return
			}

			// jwt.Parse は署名と有効期限(exp)の両方を検証してくれる
			token, err := jwt.Parse(headerParts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secretKey), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				unauthorized(w, logger, "invalid_token", model.NewAppError("INVALID_TOKEN", "Token is invalid.", "", model.ErrUnauthorized))
				return
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				logger.Warn("JWT auth failed: Subject (sub) claim missing", "error", err)
				unauthorized(w, logger, "invalid_token", model.NewAppError("INVALID_TOKEN", "Token has no subject.", "", model.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), adminSubjectKey, subject)
			ctx = WithLogger(ctx, logger.With("admin", subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized は WWW-Authenticate ヘッダー付きの 401 を返します。
// bearerErr はトークンがあった場合の error 属性で、ヘッダーがないときは空にします。
func unauthorized(w http.ResponseWriter, logger *slog.Logger, bearerErr string, err error) {
	challenge := `Bearer realm="` + authRealm + `"`
	if bearerErr != "" {
		challenge += `, error="` + bearerErr + `"`
	}
	w.Header().Set("WWW-Authenticate", challenge)
	webutil.HandleError(w, logger, err)
}

// GetAdminSubject は認証済み管理者の subject を返します。認証が無効な場合は空文字です。
func GetAdminSubject(ctx context.Context) string {
	s, _ := ctx.Value(adminSubjectKey).(string)
	return s
}
