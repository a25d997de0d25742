package minio

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
)

// PutObject uploads an object from a byte slice
func (c *Client) PutObject(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	if bucket == "" {
		return WrapError("PutObject", ErrInvalidBucketName, bucket, object)
	}
	if object == "" {
		return WrapError("PutObject", ErrInvalidObjectName, bucket, object)
	}

	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}

	reader := bytes.NewReader(data)
	if _, err := c.client.PutObject(ctx, bucket, object, reader, int64(len(data)), opts); err != nil {
		return WrapError("PutObject", err, bucket, object)
	}

	return nil
}

// StatObject retrieves object metadata
func (c *Client) StatObject(ctx context.Context, bucket, object string) (*minio.ObjectInfo, error) {
	if bucket == "" {
		return nil, WrapError("StatObject", ErrInvalidBucketName, bucket, object)
	}
	if object == "" {
		return nil, WrapError("StatObject", ErrInvalidObjectName, bucket, object)
	}

	info, err := c.client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err != nil {
		if IsNotFound(err) {
			return nil, WrapError("StatObject", ErrObjectNotFound, bucket, object)
		}
		return nil, WrapError("StatObject", err, bucket, object)
	}

	return &info, nil
}

// RemoveObject deletes a single object
func (c *Client) RemoveObject(ctx context.Context, bucket, object string) error {
	if bucket == "" {
		return WrapError("RemoveObject", ErrInvalidBucketName, bucket, object)
	}
	if object == "" {
		return WrapError("RemoveObject", ErrInvalidObjectName, bucket, object)
	}

	if err := c.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return WrapError("RemoveObject", err, bucket, object)
	}

	return nil
}

// RemoveObjectsBatch deletes multiple objects and returns the per-object
// failures keyed by object name. A failure on one object does not stop the
// removal of the others.
func (c *Client) RemoveObjectsBatch(ctx context.Context, bucket string, objects []string) (map[string]error, error) {
	if bucket == "" {
		return nil, WrapError("RemoveObjectsBatch", ErrInvalidBucketName, bucket, "")
	}
	if len(objects) == 0 {
		return nil, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(objects))
	for _, object := range objects {
		objectsCh <- minio.ObjectInfo{Key: object}
	}
	close(objectsCh)

	failures := make(map[string]error)
	for removeErr := range c.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr.Err != nil {
			failures[removeErr.ObjectName] = WrapError("RemoveObjectsBatch", removeErr.Err, bucket, removeErr.ObjectName)
		}
	}

	return failures, nil
}
