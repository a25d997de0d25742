package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eddienguyen/la-wed-be/internal/media/types"
)

func TestBuildKey(t *testing.T) {
	at := time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		prefix    string
		mediaType types.MediaType
		filename  string
		want      string
	}{
		{
			name:      "image with extension",
			prefix:    "gallery",
			mediaType: types.MediaTypeImage,
			filename:  "wedding-shot.PNG",
			want:      "gallery/images/2025/03/07/abc123.png",
		},
		{
			name:      "video with extension",
			prefix:    "gallery",
			mediaType: types.MediaTypeVideo,
			filename:  "ceremony.mp4",
			want:      "gallery/videos/2025/03/07/abc123.mp4",
		},
		{
			name:      "image without extension falls back to jpg",
			prefix:    "gallery",
			mediaType: types.MediaTypeImage,
			filename:  "noext",
			want:      "gallery/images/2025/03/07/abc123.jpg",
		},
		{
			name:      "video without extension falls back to mp4",
			prefix:    "gallery",
			mediaType: types.MediaTypeVideo,
			filename:  "noext",
			want:      "gallery/videos/2025/03/07/abc123.mp4",
		},
		{
			name:      "empty prefix uses default",
			prefix:    "",
			mediaType: types.MediaTypeImage,
			filename:  "a.jpg",
			want:      "gallery/images/2025/03/07/abc123.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildKey(tt.prefix, tt.mediaType, at, "abc123", tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantKey(t *testing.T) {
	original := "gallery/images/2025/03/07/abc123.png"

	assert.Equal(t, original, VariantKey(original, types.VariantOriginal))
	assert.Equal(t, "gallery/images/2025/03/07/abc123-thumbnail.jpg", VariantKey(original, types.VariantThumbnail))
	assert.Equal(t, "gallery/images/2025/03/07/abc123-medium.jpg", VariantKey(original, types.VariantMedium))
	assert.Equal(t, "gallery/images/2025/03/07/abc123-large.jpg", VariantKey(original, types.VariantLarge))
}

func TestGenerateKey_UniquePerCall(t *testing.T) {
	s := New(nil, Options{KeyPrefix: "gallery"}, nil)

	first := s.GenerateKey(types.MediaTypeImage, "same.jpg")
	second := s.GenerateKey(types.MediaTypeImage, "same.jpg")

	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "gallery/images/")
}

func TestPublicURL_WithBaseURL(t *testing.T) {
	s := New(nil, Options{
		Bucket:        "media",
		PublicBaseURL: "https://cdn.example.com/",
	}, nil)

	got := s.PublicURL("gallery/images/2025/03/07/abc.jpg")
	assert.Equal(t, "https://cdn.example.com/gallery/images/2025/03/07/abc.jpg", got)
}

func TestBatchDelete_Unconfigured(t *testing.T) {
	s := New(nil, Options{}, nil)

	res := s.BatchDelete(context.Background(), []string{"a.jpg", "b.jpg"})
	assert.Empty(t, res.Succeeded)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, res.Failed)
	assert.Len(t, res.Errors, 2)
}
