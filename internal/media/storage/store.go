package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/logger"
	pkgminio "github.com/eddienguyen/la-wed-be/internal/pkg/minio"
)

// Options configures the media object store.
type Options struct {
	Bucket        string
	KeyPrefix     string
	PublicBaseURL string
}

// Store persists media binaries in an S3-compatible bucket and implements
// biz.ObjectStore. A nil client is valid and makes the store report itself
// as unconfigured so callers can skip media features gracefully.
type Store struct {
	client *pkgminio.Client
	opts   Options
	clock  func() time.Time
	idGen  func() string
	logger *logger.Logger
}

var _ biz.ObjectStore = (*Store)(nil)

// New creates a media object store backed by the given client.
func New(client *pkgminio.Client, opts Options, log *logger.Logger) *Store {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if log == nil {
		log = logger.L()
	}
	return &Store{
		client: client,
		opts:   opts,
		clock:  time.Now,
		idGen:  func() string { return uuid.New().String() },
		logger: log,
	}
}

// IsConfigured reports whether the store can reach a bucket.
func (s *Store) IsConfigured() bool {
	return s.client != nil && s.opts.Bucket != ""
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	if !s.IsConfigured() {
		return biz.ErrStoreNotConfigured
	}
	if err := s.client.EnsureBucket(ctx, s.opts.Bucket); err != nil {
		return &biz.StorageError{Op: "ensure_bucket", Err: err}
	}
	return nil
}

// GenerateKey builds a fresh date-partitioned object key for an original
// upload. Every call yields a distinct key, so identical filenames never
// collide.
func (s *Store) GenerateKey(mediaType types.MediaType, filename string) string {
	return buildKey(s.opts.KeyPrefix, mediaType, s.clock().UTC(), s.idGen(), filename)
}

// Upload writes one object and returns its public URL.
func (s *Store) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if !s.IsConfigured() {
		return "", biz.ErrStoreNotConfigured
	}

	if err := s.client.PutObject(ctx, s.opts.Bucket, key, data, contentType); err != nil {
		return "", &biz.StorageError{Op: "upload", Key: key, Err: err}
	}

	s.logger.Debug("object uploaded",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return s.PublicURL(key), nil
}

// Delete removes one object. Deleting a missing object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !s.IsConfigured() {
		return biz.ErrStoreNotConfigured
	}

	if err := s.client.RemoveObject(ctx, s.opts.Bucket, key); err != nil {
		return &biz.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// BatchDelete removes a set of objects with per-key failure isolation. The
// result always covers every requested key.
func (s *Store) BatchDelete(ctx context.Context, keys []string) *biz.BatchDeleteResult {
	result := &biz.BatchDeleteResult{}
	if len(keys) == 0 {
		return result
	}

	if !s.IsConfigured() {
		result.Failed = append(result.Failed, keys...)
		for _, key := range keys {
			result.Errors = append(result.Errors,
				&biz.StorageError{Op: "batch_delete", Key: key, Err: biz.ErrStoreNotConfigured})
		}
		return result
	}

	failures, err := s.client.RemoveObjectsBatch(ctx, s.opts.Bucket, keys)
	if err != nil {
		result.Failed = append(result.Failed, keys...)
		for _, key := range keys {
			result.Errors = append(result.Errors,
				&biz.StorageError{Op: "batch_delete", Key: key, Err: err})
		}
		return result
	}

	for _, key := range keys {
		if ferr, ok := failures[key]; ok {
			result.Failed = append(result.Failed, key)
			result.Errors = append(result.Errors,
				&biz.StorageError{Op: "batch_delete", Key: key, Err: ferr})
			continue
		}
		result.Succeeded = append(result.Succeeded, key)
	}

	if len(result.Failed) > 0 {
		s.logger.Warn("batch delete incomplete",
			zap.Int("requested", len(keys)),
			zap.Strings("failed_keys", result.Failed))
	}

	return result
}

// PublicURL returns the address a browser can fetch the object from. A
// configured public base URL (CDN or reverse proxy) takes precedence over
// the raw endpoint form.
func (s *Store) PublicURL(key string) string {
	if s.opts.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.opts.PublicBaseURL, "/"), key)
	}
	if s.client == nil {
		return ""
	}

	scheme := "http"
	if s.client.Secure() {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.Endpoint(), s.opts.Bucket, key)
}
