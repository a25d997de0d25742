package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/eddienguyen/la-wed-be/internal/media/types"
)

// DefaultKeyPrefix is the root segment of every generated object key.
const DefaultKeyPrefix = "gallery"

func kindSegment(mediaType types.MediaType) string {
	if mediaType == types.MediaTypeVideo {
		return "videos"
	}
	return "images"
}

// extensionOf returns the lowercased filename extension without the dot, or
// a kind-appropriate fallback when the filename carries none.
func extensionOf(filename string, mediaType types.MediaType) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext != "" {
		return ext
	}
	if mediaType == types.MediaTypeVideo {
		return "mp4"
	}
	return "jpg"
}

// buildKey assembles an original-object key:
// {prefix}/{images|videos}/{YYYY}/{MM}/{DD}/{uuid}.{ext}
func buildKey(prefix string, mediaType types.MediaType, at time.Time, id, filename string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%s.%s",
		prefix,
		kindSegment(mediaType),
		at.Year(), at.Month(), at.Day(),
		id,
		extensionOf(filename, mediaType),
	)
}

// VariantKey derives the key of a resized rendition from the original key.
// Derived renditions are always JPEG regardless of the source encoding.
func VariantKey(originalKey string, variant types.Variant) string {
	if variant == types.VariantOriginal {
		return originalKey
	}
	base := originalKey
	if ext := path.Ext(originalKey); ext != "" {
		base = strings.TrimSuffix(originalKey, ext)
	}
	return fmt.Sprintf("%s-%s.jpg", base, variant)
}
