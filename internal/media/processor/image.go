package processor

import (
	"bytes"
	"context"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/storage"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/logger"
	"github.com/eddienguyen/la-wed-be/internal/pkg/workerpool"
)

// Store is the slice of the object store the processors depend on.
type Store interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
	BatchDelete(ctx context.Context, keys []string) *biz.BatchDeleteResult
	GenerateKey(mediaType types.MediaType, filename string) string
}

const variantJPEGQuality = 85

// ImageConfig controls validation limits and the resize presets. Zero
// values fall back to the documented defaults.
type ImageConfig struct {
	MaxSize       int64
	ThumbnailSize int
	MediumSize    int
	LargeSize     int
}

func (c ImageConfig) withDefaults() ImageConfig {
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxImageSize
	}
	if c.ThumbnailSize <= 0 {
		c.ThumbnailSize = 400
	}
	if c.MediumSize <= 0 {
		c.MediumSize = 800
	}
	if c.LargeSize <= 0 {
		c.LargeSize = 1200
	}
	return c
}

// Image validates image uploads, stores the original and generates the
// resized JPEG variants concurrently. Implements biz.ImageProcessor.
type Image struct {
	store  Store
	pool   *workerpool.Pool
	cfg    ImageConfig
	logger *logger.Logger
}

var _ biz.ImageProcessor = (*Image)(nil)

// NewImage creates the image processor.
func NewImage(store Store, pool *workerpool.Pool, cfg ImageConfig, log *logger.Logger) *Image {
	if log == nil {
		log = logger.L()
	}
	return &Image{
		store:  store,
		pool:   pool,
		cfg:    cfg.withDefaults(),
		logger: log,
	}
}

func (p *Image) presetFor(variant types.Variant) int {
	switch variant {
	case types.VariantThumbnail:
		return p.cfg.ThumbnailSize
	case types.VariantMedium:
		return p.cfg.MediumSize
	default:
		return p.cfg.LargeSize
	}
}

// Upload runs the full image pipeline: validate, extract EXIF, decode,
// store the original, then generate and store the resized variants in
// parallel. One variant's failure aborts the whole upload and already
// written objects are removed again.
func (p *Image) Upload(ctx context.Context, file *types.UploadedFile) (*biz.UploadResult, error) {
	if err := validateUpload(file, allowedImageTypes, p.cfg.MaxSize); err != nil {
		return nil, err
	}

	// EXIF is optional descriptive data; extraction failures never fail
	// the upload.
	exifMeta := extractEXIF(file.Data)

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "decode", Err: err}
	}
	bounds := img.Bounds()

	originalKey := p.store.GenerateKey(types.MediaTypeImage, file.Filename)
	originalURL, err := p.store.Upload(ctx, file.Data, originalKey, file.ContentType)
	if err != nil {
		return nil, err
	}

	keys := map[types.Variant]string{types.VariantOriginal: originalKey}
	urls := map[types.Variant]string{types.VariantOriginal: originalURL}

	type variantOutcome struct {
		variant types.Variant
		key     string
		url     string
	}

	channels := make([]<-chan workerpool.TaskResult, 0, len(types.ImageVariants))
	for _, variant := range types.ImageVariants {
		variant := variant
		ch := p.pool.SubmitWithResult(func() (interface{}, error) {
			resized := fitInside(img, p.presetFor(variant))
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(variantJPEGQuality)); err != nil {
				return nil, &biz.ProcessingError{Stage: "encode", Err: err}
			}

			key := storage.VariantKey(originalKey, variant)
			url, err := p.store.Upload(ctx, buf.Bytes(), key, "image/jpeg")
			if err != nil {
				return nil, err
			}
			return variantOutcome{variant: variant, key: key, url: url}, nil
		})
		channels = append(channels, ch)
	}

	var firstErr error
	for _, ch := range channels {
		result := <-ch
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		outcome := result.Data.(variantOutcome)
		keys[outcome.variant] = outcome.key
		urls[outcome.variant] = outcome.url
	}

	if firstErr != nil {
		p.cleanup(ctx, keys)
		return nil, firstErr
	}

	metadata := map[string]interface{}{
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
		"size":   file.Size,
		"format": strings.TrimPrefix(file.ContentType, "image/"),
	}
	for k, v := range exifMeta {
		metadata[k] = v
	}

	p.logger.Debug("image processed",
		zap.String("key", originalKey),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))

	return &biz.UploadResult{
		MediaType:   types.MediaTypeImage,
		OriginalURL: originalURL,
		Keys:        keys,
		URLs:        urls,
		Metadata:    metadata,
	}, nil
}

func (p *Image) cleanup(ctx context.Context, keys map[types.Variant]string) {
	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k)
	}
	res := p.store.BatchDelete(ctx, list)
	if len(res.Failed) > 0 {
		p.logger.Error("failed to remove objects after aborted image upload",
			zap.Strings("keys", res.Failed))
	}
}

// fitInside scales the image down so its longest edge is at most maxEdge.
// Smaller images are kept at their native size.
func fitInside(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxEdge && b.Dy() <= maxEdge {
		return img
	}
	return imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
}

// extractEXIF pulls a few descriptive tags out of the image. Any failure
// returns what was collected so far; EXIF is never fatal.
func extractEXIF(data []byte) map[string]interface{} {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	meta := make(map[string]interface{})
	if tag, err := x.Get(exif.Make); err == nil {
		if v, err := tag.StringVal(); err == nil {
			meta["camera_make"] = strings.TrimSpace(v)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if v, err := tag.StringVal(); err == nil {
			meta["camera_model"] = strings.TrimSpace(v)
		}
	}
	if dt, err := x.DateTime(); err == nil {
		meta["taken_at"] = dt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
