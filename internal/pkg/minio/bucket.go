package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// BucketExists checks if a bucket exists
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if bucket == "" {
		return false, WrapError("BucketExists", ErrInvalidBucketName, bucket, "")
	}

	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, WrapError("BucketExists", err, bucket, "")
	}

	return exists, nil
}

// MakeBucket creates a new bucket in the configured region
func (c *Client) MakeBucket(ctx context.Context, bucket string) error {
	if bucket == "" {
		return WrapError("MakeBucket", ErrInvalidBucketName, bucket, "")
	}

	opts := minio.MakeBucketOptions{Region: c.config.Region}
	if err := c.client.MakeBucket(ctx, bucket, opts); err != nil {
		return WrapError("MakeBucket", err, bucket, "")
	}

	c.logger.Info("bucket created", zap.String("bucket", bucket))
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.MakeBucket(ctx, bucket)
}
