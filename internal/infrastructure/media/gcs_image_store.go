package media

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// GCSImageStore writes course images to a Google Cloud Storage bucket.
type GCSImageStore struct {
	client *storage.Client
	bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{client: client, bucket: bucket}
}

func (s *GCSImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", errors.New("gcs not configured")
	}
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
}

var _ application.ImageStore = (*GCSImageStore)(nil)
