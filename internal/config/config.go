// internal/config/config.go
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL         string `mapstructure:"url"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	App struct {
		// TimeZone は「今日の曜日」を決めるタイムゾーン (例: Asia/Tokyo)
		TimeZone string `mapstructure:"time_zone"`
	} `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Auth    struct {
		Enabled   bool          `mapstructure:"enabled"`
		SecretKey string        `mapstructure:"secret_key"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"` // captchactl token で発行する管理者トークンの有効期限
	} `mapstructure:"auth"`
	Log LogConfig `mapstructure:"log"`
}

type StorageConfig struct {
	Type           string             `mapstructure:"type"` // "s3" or "local"
	MaxUploadBytes int64              `mapstructure:"max_upload_bytes"`
	PublicBaseURL  string             `mapstructure:"public_base_url"`
	Local          LocalStorageConfig `mapstructure:"local"`
	S3             S3Config           `mapstructure:"s3"`
}

type LocalStorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // MinIO などの互換ストレージ用
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "default"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // 空ならファイル出力しない
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

var Cfg Config

func LoadConfig(path string) error {
	// .env があれば先に読み込む (DB や S3 の認証情報は設定ファイルに書かない)
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// 例: APP_DATABASE_URL, APP_STORAGE_S3_BUCKET
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database.url", "APP_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("auth.secret_key", "APP_AUTH_SECRET_KEY", "JWT_SECRET_KEY")
	v.BindEnv("storage.s3.access_key_id", "APP_STORAGE_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "APP_STORAGE_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}
	applyDefaults(&cfg)
	if cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Storage Type: %s", Cfg.Storage.Type)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)
	return nil
}

// Default はデフォルト値だけを入れた設定を返します。テストやCLIで使います。
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// applyDefaults は未設定の項目にデフォルト値を入れます。
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.App.TimeZone == "" {
		cfg.App.TimeZone = DefaultTimeZone
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = DefaultStorageType
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		cfg.Storage.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Storage.Local.Dir == "" {
		cfg.Storage.Local.Dir = DefaultLocalStorageDir
	}
	if cfg.Storage.PublicBaseURL == "" && cfg.Storage.Type == "local" {
		cfg.Storage.PublicBaseURL = "http://localhost" + cfg.Server.Port + MediaPathPrefix
	}
	if cfg.Storage.S3.AuthType == "" {
		cfg.Storage.S3.AuthType = "default"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type"}
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 100
	}
}
