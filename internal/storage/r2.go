package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	appconfig "spareparts-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Client uploads spare part images to Cloudflare R2 (S3-compatible).
type R2Client struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Client builds the S3 client against the configured R2 endpoint.
// Returns nil when R2 is not configured; image uploads are then disabled.
func NewR2Client(cfg *appconfig.Config) (*R2Client, error) {
	if cfg.R2.AccessKey == "" || cfg.R2.Endpoint == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2.AccessKey,
			cfg.R2.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure R2 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2.Endpoint)
	})

	return &R2Client{
		client:    client,
		bucket:    cfg.R2.Bucket,
		publicURL: cfg.R2.PublicURL,
	}, nil
}

// UploadImage stores a part image under images/<key> and returns its public URL.
func (c *R2Client) UploadImage(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	objectKey := "images/" + key
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return c.publicURL + "/" + objectKey, nil
}
