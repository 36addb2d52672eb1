// Package storage provides access to the object store holding source videos
// and dubbed outputs.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dubber/internal/config"
	"dubber/internal/services"
)

// ObjectStore abstracts the bucket operations the pipeline needs. The
// concrete implementation is MinIO; tests substitute in-memory fakes.
type ObjectStore interface {
	// Fetch downloads the object with the given key to localPath.
	Fetch(ctx context.Context, key, localPath string) error
	// Store uploads the file at localPath under the given key.
	Store(ctx context.Context, key, localPath string) error
}

// MinioStore is the production ObjectStore backed by a MinIO/S3 bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the configured object storage endpoint.
func NewMinioStore(cfg config.Storage) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Fetch downloads an object to a local file. A missing object is reported
// with services.ErrNotFound so callers can fail the job without retrying.
func (s *MinioStore) Fetch(ctx context.Context, key, localPath string) error {
	err := s.client.FGetObject(ctx, s.bucket, key, localPath, minio.GetObjectOptions{})
	if err == nil {
		return nil
	}
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
		return services.Wrap(services.ErrNotFound, "download", "fetch",
			fmt.Sprintf("object %q not found in bucket %q", key, s.bucket), err)
	}
	return services.Wrap(services.ErrTransient, "download", "fetch",
		fmt.Sprintf("download %q", key), err)
}

// Store uploads a local file under the given object key.
func (s *MinioStore) Store(ctx context.Context, key, localPath string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "video/mp4",
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "upload", "store",
			fmt.Sprintf("upload %q", key), err)
	}
	return nil
}
