package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrArchiveDisabled is returned when no bucket or credentials are configured.
var ErrArchiveDisabled = errors.New("export archiving not configured")

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Archiver uploads CSV exports to object storage.
type Archiver struct {
	bucket string
	client s3Client
	logger *slog.Logger
}

// NewArchiver returns a disabled archiver when cfg is incomplete.
func NewArchiver(cfg S3Config, logger *slog.Logger) *Archiver {
	a := &Archiver{bucket: cfg.Bucket, logger: logger}
	if cfg.complete() {
		a.client = newS3Client(cfg)
	}
	return a
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil
}

// Archive stores data under exports/{userID}/{uuid}.csv and returns the key.
func (a *Archiver) Archive(ctx context.Context, userID int64, data []byte) (string, error) {
	if !a.Enabled() {
		return "", ErrArchiveDisabled
	}

	key := fmt.Sprintf("exports/%d/%s.csv", userID, uuid.NewString())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	a.logger.Info("export archived", "user_id", userID, "key", key, "bytes", len(data))
	return key, nil
}
