// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"tile_captcha/internal/config"
	"tile_captcha/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Router はルーティングに必要な依存関係です。
type Router struct {
	Config    *config.Config
	DB        *gorm.DB
	Logger    *slog.Logger
	Puzzle    *PuzzleHandler
	Upload    *UploadHandler
	Challenge *ChallengeHandler
	// MediaDir が空でなければ /media/ でローカル保存した画像を配信する
	MediaDir string
}

func (rt *Router) Handler() http.Handler {
	cfg := rt.Config
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(rt.Logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	adminOnly := middleware.AdminAuthMiddleware(cfg.Auth.Enabled, cfg.Auth.SecretKey)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/puzzles", func(r chi.Router) {
			r.Get("/", rt.Puzzle.GetPuzzles)
			r.Get("/{id}", rt.Puzzle.GetPuzzle)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", rt.Puzzle.PostPuzzle)
				r.Put("/{id}", rt.Puzzle.PutPuzzle)
				r.Delete("/{id}", rt.Puzzle.DeletePuzzle)
			})
		})

		r.With(adminOnly).Post("/uploads", rt.Upload.PostUpload)

		r.Get("/challenge", rt.Challenge.GetChallenge)
		r.Post("/challenge/{id}/verify", rt.Challenge.PostVerify)
	})

	if rt.MediaDir != "" {
		r.Handle(config.MediaPathPrefix+"*", noSniff(http.StripPrefix(config.MediaPathPrefix, http.FileServer(http.Dir(rt.MediaDir)))))
	}

	r.Get("/health", rt.health)
	return r
}

// noSniff はブラウザに Content-Type の推測をさせません。
func noSniff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// health はDBに接続できるかを確認します。
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	sqlDB, err := rt.DB.DB()
	if err != nil {
		logger.Error("Health check failed: could not get DB object", slog.Any("error", err))
		http.Error(w, "Health check failed", http.StatusInternalServerError)
		return
	}
	if err := sqlDB.PingContext(r.Context()); err != nil {
		logger.Error("Health check failed: could not ping DB", slog.Any("error", err))
		http.Error(w, "Health check failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
