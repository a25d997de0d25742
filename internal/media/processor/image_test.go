package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/workerpool"
)

// fakeStore records uploads in memory and can be told to fail specific keys.
type fakeStore struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	deleted  []string
	failKeys map[string]error
	counter  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		uploads:  make(map[string][]byte),
		failKeys: make(map[string]error),
	}
}

func (s *fakeStore) Upload(_ context.Context, data []byte, key, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for substr, err := range s.failKeys {
		if bytes.Contains([]byte(key), []byte(substr)) {
			return "", err
		}
	}

	s.uploads[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) BatchDelete(_ context.Context, keys []string) *biz.BatchDeleteResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &biz.BatchDeleteResult{}
	for _, key := range keys {
		delete(s.uploads, key)
		s.deleted = append(s.deleted, key)
		res.Succeeded = append(res.Succeeded, key)
	}
	return res
}

func (s *fakeStore) GenerateKey(mediaType types.MediaType, filename string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	kind := "images"
	ext := "jpg"
	if mediaType == types.MediaTypeVideo {
		kind = "videos"
		ext = "mp4"
	}
	return fmt.Sprintf("gallery/%s/2025/01/15/test-%d.%s", kind, s.counter, ext)
}

func (s *fakeStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func newTestPool(t *testing.T) *workerpool.Pool {
	t.Helper()
	pool, err := workerpool.New(&workerpool.Config{Workers: 4}, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Shutdown)
	return pool
}

// testJPEG renders a gradient image so that JPEG encoding has real content
// to work with.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y += 4 {
		for x := 0; x < width; x += 4 {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestImageUpload_GeneratesAllVariants(t *testing.T) {
	store := newFakeStore()
	proc := NewImage(store, newTestPool(t), ImageConfig{}, nil)

	data := testJPEG(t, 2000, 1500)
	result, err := proc.Upload(context.Background(), &types.UploadedFile{
		Data:        data,
		Filename:    "ceremony.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
	})
	require.NoError(t, err)

	assert.Equal(t, types.MediaTypeImage, result.MediaType)
	assert.Len(t, result.Keys, 4)
	assert.Len(t, result.URLs, 4)
	assert.Equal(t, 4, store.uploadCount())

	for _, variant := range []types.Variant{
		types.VariantOriginal, types.VariantThumbnail, types.VariantMedium, types.VariantLarge,
	} {
		assert.Contains(t, result.Keys, variant)
		assert.Contains(t, result.URLs[variant], "https://cdn.test/gallery/images/")
	}

	assert.Equal(t, 2000, result.Metadata["width"])
	assert.Equal(t, 1500, result.Metadata["height"])
	assert.Equal(t, "jpeg", result.Metadata["format"])
}

func TestImageUpload_VariantsFitInsidePresets(t *testing.T) {
	store := newFakeStore()
	proc := NewImage(store, newTestPool(t), ImageConfig{}, nil)

	data := testJPEG(t, 2000, 1500)
	result, err := proc.Upload(context.Background(), &types.UploadedFile{
		Data:        data,
		Filename:    "big.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
	})
	require.NoError(t, err)

	limits := map[types.Variant]int{
		types.VariantThumbnail: 400,
		types.VariantMedium:    800,
		types.VariantLarge:     1200,
	}
	for variant, maxEdge := range limits {
		stored := store.uploads[result.Keys[variant]]
		require.NotEmpty(t, stored, "variant %s missing", variant)

		img, err := imaging.Decode(bytes.NewReader(stored))
		require.NoError(t, err)

		b := img.Bounds()
		assert.LessOrEqual(t, b.Dx(), maxEdge)
		assert.LessOrEqual(t, b.Dy(), maxEdge)
	}
}

func TestImageUpload_NoUpscaling(t *testing.T) {
	store := newFakeStore()
	proc := NewImage(store, newTestPool(t), ImageConfig{}, nil)

	data := testJPEG(t, 300, 200)
	result, err := proc.Upload(context.Background(), &types.UploadedFile{
		Data:        data,
		Filename:    "small.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
	})
	require.NoError(t, err)

	stored := store.uploads[result.Keys[types.VariantLarge]]
	img, err := imaging.Decode(bytes.NewReader(stored))
	require.NoError(t, err)

	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestImageUpload_RejectsBeforeAnyStoreCall(t *testing.T) {
	store := newFakeStore()
	proc := NewImage(store, newTestPool(t), ImageConfig{MaxSize: 1024}, nil)

	data := testJPEG(t, 800, 600)
	require.Greater(t, len(data), 1024)

	_, err := proc.Upload(context.Background(), &types.UploadedFile{
		Data:        data,
		Filename:    "huge.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
	})
	require.Error(t, err)
	assert.True(t, biz.IsValidationError(err))
	assert.Zero(t, store.uploadCount())
}

func TestImageUpload_UndecodableFails(t *testing.T) {
	store := newFakeStore()
	proc := NewImage(store, newTestPool(t), ImageConfig{}, nil)

	_, err := proc.Upload(context.Background(), &types.UploadedFile{
		Data:        []byte("not an image at all"),
		Filename:    "junk.jpg",
		ContentType: "image/jpeg",
		Size:        19,
	})
	require.Error(t, err)

	var pe *biz.ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "decode", pe.Stage)
	assert.Zero(t, store.uploadCount())
}

func TestImageUpload_VariantFailureCleansUp(t *testing.T) {
	store := newFakeStore()
	store.failKeys["-medium"] = &biz.StorageError{Op: "upload", Key: "medium", Err: assert.AnError}

	proc := NewImage(store, newTestPool(t), ImageConfig{}, nil)

	data := testJPEG(t, 2000, 1500)
	_, err := proc.Upload(context.Background(), &types.UploadedFile{
		Data:        data,
		Filename:    "doomed.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
	})
	require.Error(t, err)

	// Everything written before the failure is removed again.
	assert.Zero(t, store.uploadCount())
	assert.NotEmpty(t, store.deleted)
}
