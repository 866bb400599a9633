package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tile_captcha/internal/config"
	"tile_captcha/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PutObjectAPI はテストで差し替えられるように s3.Client の一部だけを切り出したものです。
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store は S3 (または MinIO などの互換ストレージ) に画像を保存します。
type S3Store struct {
	client  S3PutObjectAPI
	bucket  string
	baseURL string
}

// NewS3Store は設定に応じて認証方法を切り替えて S3 クライアントを生成します。
func NewS3Store(ctx context.Context, cfg *config.StorageConfig) (*S3Store, error) {
	if cfg.S3.Bucket == "" {
		return nil, errors.New("storage.NewS3Store: bucket is required")
	}

	var awsCfgOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3.Region != "" {
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(cfg.S3.Region))
	}

	switch cfg.S3.AuthType {
	case "static_credentials":
		slog.Info("Configuring S3 with static credentials.")
		if cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" {
			return nil, errors.New("storage.NewS3Store: access_key_id and secret_access_key are required for static_credentials")
		}
		creds := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))
	case "default", "iam_role":
		// SDK のデフォルトチェーン (環境変数, 共有設定, IAM ロール) に任せる
		slog.Info("Configuring S3 with default credential chain.")
	default:
		slog.Warn("Unknown S3 auth_type specified, using default credential chain.", "type", cfg.S3.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsCfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewS3Store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	})

	return NewS3StoreWithClient(client, cfg.S3.Bucket, s3BaseURL(cfg, awsCfg.Region)), nil
}

func NewS3StoreWithClient(client S3PutObjectAPI, bucket, baseURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, baseURL: baseURL}
}

// s3BaseURL は公開URLの前半部分を決めます。public_base_url (CDN など) があればそれを優先します。
func s3BaseURL(cfg *config.StorageConfig, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.S3.Endpoint != "" && cfg.S3.UsePathStyle:
		return joinURL(cfg.S3.Endpoint, cfg.S3.Bucket)
	case cfg.S3.Endpoint != "":
		return cfg.S3.Endpoint
	case region != "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3.Bucket, region)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.S3.Bucket)
	}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	logger := middleware.GetLogger(ctx)
	if err := validateKey(key); err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		logger.Error("Failed to put object to S3", "error", err, "bucket", s.bucket, "key", key)
		return "", fmt.Errorf("S3Store.Put: %w", err)
	}

	logger.Info("Object stored in S3", "bucket", s.bucket, "key", key, "size", size)
	return key, nil
}

func (s *S3Store) PublicURL(path string) string {
	return joinURL(s.baseURL, path)
}
