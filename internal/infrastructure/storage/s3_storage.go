package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"tubely/upload-api/internal/config"
)

const ProviderS3 = "s3"

var errStorageDisabled = errors.New("object storage is not configured; set MEDIA_S3_BUCKET to enable uploads")

// S3Storage writes assets to an S3 compatible bucket.
type S3Storage struct {
	bucket         string
	region         string
	publicEndpoint string
	client         *s3.Client
	log            zerolog.Logger
	disabled       bool
}

// NewS3Storage builds the client. Without a bucket the store stays disabled and
// every Put fails, so the service can still boot for thumbnail-only setups.
func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket:         strings.TrimSpace(cfg.S3Bucket),
		region:         strings.TrimSpace(cfg.S3Region),
		publicEndpoint: strings.TrimSpace(cfg.S3PublicEndpoint),
		log:            logger,
	}

	if storage.bucket == "" {
		logger.Warn().Msg("MEDIA_S3_BUCKET is not set; video uploads will fail until configured")
		storage.disabled = true
		return storage, nil
	}

	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(storage.region)}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	storage.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	logger.Info().
		Str("bucket", storage.bucket).
		Str("region", storage.region).
		Str("endpoint", cfg.S3Endpoint).
		Msg("s3 storage initialized")

	return storage, nil
}

func (s *S3Storage) Provider() string { return ProviderS3 }

// Put uploads body under key and returns its public URL.
func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if s.disabled {
		return "", errStorageDisabled
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Debug().Str("key", key).Int64("bytes", size).Msg("object stored")
	return objectURL(s.publicEndpoint, s.bucket, s.region, key)
}

// Delete removes an object. Deleting a missing key succeeds.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if s.disabled {
		return errStorageDisabled
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// objectURL renders the virtual-hosted AWS URL, or a path-style URL under the
// public endpoint when one is configured.
func objectURL(publicEndpoint, bucket, region, key string) (string, error) {
	if publicEndpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
	}

	base, err := url.Parse(publicEndpoint)
	if err != nil {
		return "", fmt.Errorf("parse MEDIA_S3_PUBLIC_ENDPOINT: %w", err)
	}
	base.Path = joinPublicPath(base.Path, bucket+"/"+key)
	return base.String(), nil
}

func joinPublicPath(basePath, objectPath string) string {
	base := strings.TrimSuffix(basePath, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base + "/" + strings.TrimPrefix(objectPath, "/")
}
