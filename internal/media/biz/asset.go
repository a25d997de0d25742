package biz

import (
	"time"

	"github.com/eddienguyen/la-wed-be/internal/media/types"
)

// MediaAsset is the catalog record of one gallery image or video together
// with its derived variants. Object keys are assigned once at upload time
// and never change afterwards.
type MediaAsset struct {
	ID       string
	Filename string

	Title   string
	Caption string
	AltText string

	MediaType types.MediaType
	Category  types.Category

	// ObjectKey is the storage key of the original upload. Keys and URLs
	// map every stored variant (original included) to its key / public URL.
	ObjectKey string
	Keys      map[types.Variant]string
	URLs      map[types.Variant]string

	Featured     bool
	DisplayOrder int

	// Metadata holds technical fields extracted at upload time (dimensions,
	// duration, codec, EXIF, file size, format). Append-only.
	Metadata map[string]interface{}

	Location     string
	Photographer string
	DateTaken    *time.Time

	// DeletedAt marks a soft-deleted asset. Soft-deleted assets are
	// excluded from every read path by default.
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted reports whether the asset is soft-deleted.
func (a *MediaAsset) IsDeleted() bool {
	return a.DeletedAt != nil
}

// AllKeys returns every object key associated with the asset, the original
// included. Used by hard delete to clean up the object store.
func (a *MediaAsset) AllKeys() []string {
	keys := make([]string, 0, len(a.Keys)+1)
	seen := make(map[string]struct{}, len(a.Keys)+1)
	for _, k := range a.Keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if a.ObjectKey != "" {
		if _, ok := seen[a.ObjectKey]; !ok {
			keys = append(keys, a.ObjectKey)
		}
	}
	return keys
}

// UploadResult is the transient outcome of a processor run: every stored
// object key, its public URL and the technical metadata extracted from the
// upload. It exists only between processing and catalog persistence.
type UploadResult struct {
	MediaType   types.MediaType
	OriginalURL string
	Keys        map[types.Variant]string
	URLs        map[types.Variant]string
	Metadata    map[string]interface{}
}
