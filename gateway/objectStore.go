package gateway

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements ObjectStore on S3. Buckets holding issue photos are
// public-read, so the object URL doubles as the retrievable image URL.
type S3Store struct {
	client *s3.Client
	region string
}

func NewS3Store(client *s3.Client, region string) *S3Store {
	return &S3Store{client: client, region: region}
}

func (s *S3Store) UploadObject(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *S3Store) PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, path)
}
