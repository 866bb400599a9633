// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tile_captcha/internal/config"
	"tile_captcha/internal/handlers"
	"tile_captcha/internal/logging"
	"tile_captcha/internal/repository"
	"tile_captcha/internal/service"
	"tile_captcha/internal/storage"
)

func main() {
	log.Println("Log Config Loading...")

	// Configを読み込み
	if err := config.LoadConfig("../configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger, logCloser := logging.New(cfg.Log, os.Getenv("APP_ENV"), os.Stderr)
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)
	log.Println("Log Config Loaded...")

	slog.Info("Application starting...")

	// 1. DB (GORM)
	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			slog.Error("Error migrating database", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Database migrated")
	}

	// 2. オブジェクトストレージ
	store, err := storage.NewObjectStore(context.Background(), &cfg.Storage)
	if err != nil {
		slog.Error("Error initializing object storage", slog.Any("error", err))
		os.Exit(1)
	}
	var mediaDir string
	if local, ok := store.(*storage.LocalStore); ok {
		mediaDir = local.Dir()
	}

	loc, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		slog.Error("Invalid time zone", slog.String("time_zone", cfg.App.TimeZone), slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Dependency Injection
	puzzleRepo := repository.NewGormPuzzleRepository()

	puzzleService := service.NewPuzzleService(db, puzzleRepo)
	uploadService := service.NewUploadService(store, cfg.Storage.MaxUploadBytes)
	challengeService := service.NewChallengeService(db, puzzleRepo, loc, time.Now)

	router := &handlers.Router{
		Config:    cfg,
		DB:        db,
		Logger:    logger,
		Puzzle:    handlers.NewPuzzleHandler(puzzleService, logger),
		Upload:    handlers.NewUploadHandler(uploadService, cfg.Storage.MaxUploadBytes, logger),
		Challenge: handlers.NewChallengeHandler(challengeService, logger),
		MediaDir:  mediaDir,
	}

	// 4. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second, // 10MB のアップロードを受けるため長め
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
