package types

import "time"

// UploadedFile is the binary payload handed over by the transport layer:
// raw bytes plus the client-declared filename, MIME type and size.
type UploadedFile struct {
	Data        []byte
	Filename    string
	ContentType string
	Size        int64
}

// UploadMetadata carries the recognized descriptive fields of an upload.
type UploadMetadata struct {
	Title        string
	Caption      string
	AltText      string
	Category     Category
	Featured     bool
	DisplayOrder int
	Location     string
	Photographer string
	DateTaken    *time.Time
}

// UpdateMediaRequest is a partial metadata update. Nil fields are left
// untouched; stored objects are never modified by an update.
type UpdateMediaRequest struct {
	Title        *string
	Caption      *string
	AltText      *string
	Category     *Category
	Featured     *bool
	DisplayOrder *int
	Location     *string
	Photographer *string
	DateTaken    *time.Time
}

// ListMediaRequest filters and paginates the catalog listing. Soft-deleted
// assets are always excluded.
type ListMediaRequest struct {
	Page      int
	PageSize  int
	Category  Category
	MediaType MediaType
	Featured  *bool
	Search    string
	SortBy    string
	SortDesc  bool
}

// ReorderItem assigns a new display order to one asset.
type ReorderItem struct {
	ID           string
	DisplayOrder int
}

// CleanupResult reports the outcome of a retention sweep. Per-item failures
// do not abort the sweep; they are collected here instead.
type CleanupResult struct {
	DeletedCount int
	FailedCount  int
	Errors       []string
}

// MediaStats is an aggregate view over the non-deleted catalog.
type MediaStats struct {
	Total      int64
	Images     int64
	Videos     int64
	Featured   int64
	ByCategory map[Category]int64
}
