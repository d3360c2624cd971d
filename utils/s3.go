package utils

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store keeps images in a public-read bucket. The object key doubles as the public id.
type S3Store struct {
	bucket   string
	client   *s3.Client
	uploader *manager.Uploader
}

func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		bucket:   bucket,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, file io.Reader, filename, contentType, folder string) (models.Image, error) {
	// Unique keys prevent overwrites between sellers uploading the same file name.
	key := path.Join(folder, fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102150405"), uuid.NewString()[:8], path.Base(filename)))

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("s3 upload %s: %w", filename, err)
	}
	return models.Image{URL: result.Location, PublicID: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", publicID, err)
	}
	return nil
}
