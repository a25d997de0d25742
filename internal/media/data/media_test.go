package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
)

func TestMediaPO_DomainRoundTrip(t *testing.T) {
	taken := time.Date(2025, 6, 21, 14, 0, 0, 0, time.UTC)
	created := time.Date(2025, 6, 22, 9, 30, 0, 0, time.UTC)

	asset := &biz.MediaAsset{
		ID:        "8f14e45f-ea0a-4b1c-9d8a-000000000001",
		Filename:  "ceremony.jpg",
		Title:     "First dance",
		Caption:   "The first dance of the evening",
		AltText:   "Couple dancing",
		MediaType: types.MediaTypeImage,
		Category:  types.CategoryReception,
		ObjectKey: "gallery/images/2025/06/22/abc.jpg",
		Keys: map[types.Variant]string{
			types.VariantOriginal:  "gallery/images/2025/06/22/abc.jpg",
			types.VariantThumbnail: "gallery/images/2025/06/22/abc-thumbnail.jpg",
			types.VariantMedium:    "gallery/images/2025/06/22/abc-medium.jpg",
			types.VariantLarge:     "gallery/images/2025/06/22/abc-large.jpg",
		},
		URLs: map[types.Variant]string{
			types.VariantOriginal: "https://cdn.test/gallery/images/2025/06/22/abc.jpg",
		},
		Featured:     true,
		DisplayOrder: 3,
		Metadata: map[string]interface{}{
			"width":  float64(2000),
			"height": float64(1500),
		},
		Location:     "Da Nang",
		Photographer: "Studio A",
		DateTaken:    &taken,
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	got := toDomain(toPO(asset))

	assert.Equal(t, asset.ID, got.ID)
	assert.Equal(t, asset.Filename, got.Filename)
	assert.Equal(t, asset.Title, got.Title)
	assert.Equal(t, asset.MediaType, got.MediaType)
	assert.Equal(t, asset.Category, got.Category)
	assert.Equal(t, asset.ObjectKey, got.ObjectKey)
	assert.Equal(t, asset.Keys, got.Keys)
	assert.Equal(t, asset.URLs, got.URLs)
	assert.Equal(t, asset.Featured, got.Featured)
	assert.Equal(t, asset.DisplayOrder, got.DisplayOrder)
	assert.Equal(t, asset.Metadata, got.Metadata)
	assert.Equal(t, asset.DateTaken, got.DateTaken)
	assert.Nil(t, got.DeletedAt)
}

func TestMediaPO_SoftDeleteMapping(t *testing.T) {
	deletedAt := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	asset := &biz.MediaAsset{
		ID:        "id-1",
		MediaType: types.MediaTypeVideo,
		Category:  types.CategoryOther,
		DeletedAt: &deletedAt,
	}

	po := toPO(asset)
	require.True(t, po.DeletedAt.Valid)
	assert.Equal(t, deletedAt, po.DeletedAt.Time)

	got := toDomain(po)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, deletedAt, *got.DeletedAt)
	assert.True(t, got.IsDeleted())
}

func TestMediaPO_NilMaps(t *testing.T) {
	po := toPO(&biz.MediaAsset{ID: "id-2", MediaType: types.MediaTypeImage, Category: types.CategoryOther})
	assert.Nil(t, po.Keys)
	assert.Nil(t, po.URLs)
	assert.Nil(t, map[string]interface{}(po.Metadata))

	got := toDomain(po)
	assert.Nil(t, got.Keys)
	assert.Nil(t, got.URLs)
}

func TestVariantMapJSON_ScanValue(t *testing.T) {
	in := VariantMapJSON{
		"original":  "gallery/images/2025/06/22/abc.jpg",
		"thumbnail": "gallery/images/2025/06/22/abc-thumbnail.jpg",
	}

	raw, err := in.Value()
	require.NoError(t, err)

	var out VariantMapJSON
	require.NoError(t, out.Scan(raw.([]byte)))
	assert.Equal(t, in, out)
}

func TestVariantMapJSON_ScanNil(t *testing.T) {
	var out VariantMapJSON
	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)

	var empty VariantMapJSON
	val, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMetadataJSON_ScanValue(t *testing.T) {
	in := MetadataJSON{
		"width":    float64(1280),
		"height":   float64(720),
		"codec":    "h264",
		"duration": 10.13,
	}

	raw, err := in.Value()
	require.NoError(t, err)

	var out MetadataJSON
	require.NoError(t, out.Scan(raw.([]byte)))
	assert.Equal(t, in, out)
}

func TestSortColumns_Allowlist(t *testing.T) {
	for _, allowed := range []string{"created_at", "updated_at", "display_order", "filename", "date_taken"} {
		_, ok := sortColumns[allowed]
		assert.True(t, ok, allowed)
	}

	_, ok := sortColumns["id; DROP TABLE media"]
	assert.False(t, ok)
}

func TestMediaPO_TableName(t *testing.T) {
	assert.Equal(t, "media", MediaPO{}.TableName())
}
