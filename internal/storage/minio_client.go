package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"blogr/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := cfg.MinIO.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinIO.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinIO.Endpoint)
	}

	return &MinIOClient{
		client:    client,
		bucket:    cfg.MinIO.BucketName,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (m *MinIOClient) SavePhoto(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	now := time.Now()
	objectName := fmt.Sprintf("users/%d/%02d/%s", now.Year(), now.Month(), name)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("upload photo to minio: %w", err)
	}

	return m.objectURL(objectName), nil
}

func (m *MinIOClient) DeletePhoto(ctx context.Context, ref string) error {
	objectName, ok := m.objectName(ref)
	if !ok {
		return nil
	}

	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove photo from minio: %w", err)
	}
	return nil
}

func (m *MinIOClient) objectURL(objectName string) string {
	return m.publicURL + "/" + m.bucket + "/" + objectName
}

func (m *MinIOClient) objectName(ref string) (string, bool) {
	prefix := m.publicURL + "/" + m.bucket + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, prefix), true
}
