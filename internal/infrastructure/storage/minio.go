// Package storage keeps report photos in an S3 compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config describes the bucket connection.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	// PublicBaseURL, when set, is joined with the object path to build photo URLs. Otherwise URLs
	// are presigned for PresignExpiry.
	PublicBaseURL string
	PresignExpiry time.Duration
}

// Object is a stored photo.
type Object struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// PhotoStore implements the photo storage ports on top of MinIO.
type PhotoStore struct {
	client  *minio.Client
	bucket  string
	region  string
	baseURL string
	expiry  time.Duration
	logger  *zap.Logger
}

// New creates a PhotoStore. No request is made until the first call.
func New(cfg Config, logger *zap.Logger) (*PhotoStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &PhotoStore{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
		expiry:  expiry,
		logger:  logger,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *PhotoStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("created photo bucket", zap.String("bucket", s.bucket))
	return nil
}

// Upload writes data to path. Existing objects are overwritten.
func (s *PhotoStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	return nil
}

// Delete removes path. Removing a missing object is not an error.
func (s *PhotoStore) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// List returns every object under prefix.
func (s *PhotoStore) List(ctx context.Context, prefix string) ([]Object, error) {
	// cancelling stops the listing goroutine when we return early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []Object
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, info.Err)
		}
		objects = append(objects, Object{Path: info.Key, Size: info.Size, LastModified: info.LastModified})
	}
	return objects, nil
}

// PublicURL returns a URL a browser can load the photo from.
func (s *PhotoStore) PublicURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if s.baseURL != "" {
		return s.baseURL + "/" + escapePath(path), nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", path, err)
	}
	return u.String(), nil
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
