package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/logger"
)

// Uploader stores scraper artifacts, mainly step-by-step screenshots taken
// during browser runs, in an S3 bucket.
type Uploader struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewUploader resolves AWS configuration from the environment and returns an
// uploader bound to the given bucket.
func NewUploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger.Get(),
	}, nil
}

// Upload writes a blob under the given key.
func (u *Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", u.bucket, key, err)
	}

	u.logger.Debug("Uploaded artifact",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	return nil
}

// UploadScreenshot stores a PNG screenshot for one step of a scraping run.
// Keys group by run so a whole run's screenshots list together.
func (u *Uploader) UploadScreenshot(ctx context.Context, runID uuid.UUID, step string, png []byte) (string, error) {
	key := ScreenshotKey(runID, step)
	if err := u.Upload(ctx, key, png, "image/png"); err != nil {
		return "", err
	}
	return key, nil
}

// ScreenshotKey builds the object key for one run step's screenshot.
func ScreenshotKey(runID uuid.UUID, step string) string {
	return fmt.Sprintf("screenshots/%s/%s.png", runID, step)
}
