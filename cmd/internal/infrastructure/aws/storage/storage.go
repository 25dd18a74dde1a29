package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	PathNoteImages = "notes/images/"
	PathNoteFiles  = "notes/files/"
)

// ObjectAPI is the subset of the S3 client used by Client.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Client interface {
	UploadFile(ctx context.Context, data []byte, key string) error
	// DeleteFile is idempotent, a missing object is not an error.
	DeleteFile(ctx context.Context, key string) error
	URL(key string) string
}

type storageClient struct {
	bucket string
	region string
	client ObjectAPI
}

func NewStorageClient(ctx context.Context, region, bucket string) (S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewWithAPI(s3.NewFromConfig(cfg), region, bucket), nil
}

func NewWithAPI(api ObjectAPI, region, bucket string) S3Client {
	return &storageClient{
		bucket: bucket,
		region: region,
		client: api,
	}
}

func (s *storageClient) UploadFile(ctx context.Context, data []byte, key string) error {
	if key == "" {
		return errors.New("key is empty")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(key))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *storageClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *storageClient) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
