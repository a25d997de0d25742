package processor

import (
	"fmt"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
)

// Default upload size limits.
const (
	DefaultMaxImageSize = int64(10 << 20)  // 10MB
	DefaultMaxVideoSize = int64(100 << 20) // 100MB
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var allowedVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/quicktime": {},
	"video/x-msvideo": {},
	"video/webm":      {},
}

// validateUpload gates an upload before any processing or store call. It
// returns a ValidationError for a disallowed type, an oversized payload or
// an empty buffer.
func validateUpload(file *types.UploadedFile, allowed map[string]struct{}, maxSize int64) error {
	if file == nil || len(file.Data) == 0 {
		return &biz.ValidationError{
			Reason: biz.ReasonEmptyBuffer,
			Detail: "uploaded file is empty",
		}
	}

	if _, ok := allowed[file.ContentType]; !ok {
		return &biz.ValidationError{
			Reason: biz.ReasonTypeNotAllowed,
			Detail: fmt.Sprintf("content type %q is not allowed", file.ContentType),
		}
	}

	if int64(len(file.Data)) > maxSize {
		return &biz.ValidationError{
			Reason: biz.ReasonSizeExceeded,
			Detail: fmt.Sprintf("file size %d exceeds limit %d", len(file.Data), maxSize),
		}
	}

	return nil
}
