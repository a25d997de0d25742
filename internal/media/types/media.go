package types

// MediaType is the kind of a gallery asset.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid checks whether the media type is known.
func (mt MediaType) Valid() bool {
	switch mt {
	case MediaTypeImage, MediaTypeVideo:
		return true
	}
	return false
}

// String returns the string representation.
func (mt MediaType) String() string {
	return string(mt)
}

// Category is the gallery category an asset belongs to.
type Category string

const (
	CategoryWedding    Category = "wedding"
	CategoryEngagement Category = "engagement"
	CategoryPreWedding Category = "pre-wedding"
	CategoryCeremony   Category = "ceremony"
	CategoryReception  Category = "reception"
	CategoryOther      Category = "other"
)

// Valid checks whether the category is one of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryWedding, CategoryEngagement, CategoryPreWedding,
		CategoryCeremony, CategoryReception, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Variant names a stored rendition of an asset. Original keeps the source
// encoding; the derived variants are transcoded to JPEG.
type Variant string

const (
	VariantOriginal  Variant = "original"
	VariantThumbnail Variant = "thumbnail"
	VariantMedium    Variant = "medium"
	VariantLarge     Variant = "large"
)

// String returns the string representation.
func (v Variant) String() string {
	return string(v)
}

// ImageVariants are the derived renditions generated for every image upload.
var ImageVariants = []Variant{VariantThumbnail, VariantMedium, VariantLarge}
