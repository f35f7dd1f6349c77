package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/config"
)

// ObjectStore is the object storage collaborator used for listing images.
// Delete must succeed for keys that do not exist.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

var _ ObjectStore = (*MinioStore)(nil)

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		slog.Info("object storage bucket created", "bucket", cfg.MinioBucket)
	}

	base := cfg.MinioPublicURL
	if base == "" {
		base = client.EndpointURL().String()
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket, publicURL: base}, nil
}

// Upload stores an object. Existing keys are never targeted since keys are random.
func (m *MinioStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the anonymous-read URL of key. The bucket is expected to
// carry a public read policy.
func (m *MinioStore) PublicURL(key string) string {
	return PublicURL(m.publicURL, m.bucket, key)
}

// Delete removes an object. Removing a missing key is not an error.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PublicURL joins a base URL, bucket and key with single slashes.
func PublicURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(bucket, "/") + "/" + strings.TrimLeft(key, "/")
}
