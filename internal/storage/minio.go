// Package storage stores post images in MinIO-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage uploads and removes post images.
type ObjectStorage interface {
	UploadImage(ctx context.Context, postID uint, fileName string, file io.Reader, size int64) (objectName, url string, err error)
	DeleteImage(ctx context.Context, objectName string) error
}

// MinioStorage is the MinIO-backed implementation.
type MinioStorage struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewMinioStorage connects to the object store and ensures the bucket exists.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioStorage{client: client, endpoint: endpoint, bucket: bucket, useSSL: useSSL}, nil
}

// UploadImage stores the file under a unique object name and returns its URL.
func (s *MinioStorage) UploadImage(ctx context.Context, postID uint, fileName string, file io.Reader, size int64) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("posts/%d/%s%s", postID, uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName)
	return objectName, url, nil
}

// DeleteImage removes an object, used when a post is deleted.
func (s *MinioStorage) DeleteImage(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
