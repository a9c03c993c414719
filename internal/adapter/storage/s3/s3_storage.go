package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/propstack/listing-service/internal/platform/logger"
)

// Storage keeps listing photos in a MinIO bucket. Object keys are
// "photos/<uuid><ext>"; the returned URL is the direct object URL.
type Storage struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// NewStorage builds the client and makes sure the bucket exists.
func NewStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %q: %w", endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make bucket %q: %w", bucket, err)
		}
	}

	log.Info("photo storage ready", "endpoint", endpoint, "bucket", bucket)
	return &Storage{client: client, bucket: bucket, log: log}, nil
}

func (s *Storage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	key := fmt.Sprintf("photos/%s%s", uuid.NewString(), filepath.Ext(fileName))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: http.DetectContentType(data)})
	if err != nil {
		return "", fmt.Errorf("upload %q to bucket %q: %w", key, s.bucket, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	s.log.Debug("photo uploaded", "key", key, "bytes", len(data))
	return url, nil
}
