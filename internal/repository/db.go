package repository

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"tile_captcha/internal/model"

	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqliteScheme が付いた URL は sqlite で開きます (開発用)。例: sqlite://captcha.db
const sqliteScheme = "sqlite://"

// dialector は URL のスキームから GORM のドライバを選びます。
func dialector(databaseURL string) (gorm.Dialector, string) {
	if strings.HasPrefix(databaseURL, sqliteScheme) {
		return sqlite.Open(strings.TrimPrefix(databaseURL, sqliteScheme)), "sqlite"
	}
	return postgres.Open(databaseURL), "postgres"
}

// NewDB はデータベースに接続します。
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	if appLogger == nil {
		appLogger = slog.Default()
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("repository.NewDB: database url is empty")
	}

	// APP_ENV=dev のときは SQL を Info で出す
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)

	dial, driver := dialector(databaseURL)
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: slogGormLogger.LogMode(gormLogLevel),
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.String("driver", driver), slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	if driver == "sqlite" {
		// sqlite は書き込みが1本しか通らない
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	appLogger.Info("Database connection established with GORM", slog.String("driver", driver))
	return db, nil
}

// Migrate は puzzles テーブルと weekday のユニークインデックスを作成します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Puzzle{}); err != nil {
		return fmt.Errorf("repository.Migrate: %w", err)
	}
	return nil
}
