package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const basePath = "gallery/"

// ObjectStore uploads and removes gallery image bytes. The returned key is
// persisted as the image's storage path; the public URL is derived from it.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, filename string) (key string, url string, err error)
	Delete(ctx context.Context, key string) error
}

type s3Store struct {
	bucket  string
	baseURL string
	client  *s3.Client
}

func NewObjectStore(ctx context.Context) (ObjectStore, error) {
	region := os.Getenv("AWS_S3_REGION")
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		return nil, errors.New("S3_BUCKET_NAME is not set")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	baseURL := os.Getenv("S3_PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &s3Store{
		bucket:  bucket,
		baseURL: baseURL,
		client:  s3.NewFromConfig(cfg),
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, data []byte, filename string) (string, string, error) {
	if filename == "" {
		return "", "", errors.New("filename is empty")
	}

	key := basePath + filename
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", "", err
	}
	return key, s.baseURL + "/" + key, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
