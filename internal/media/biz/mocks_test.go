package biz

import (
	"context"
	"time"

	"github.com/eddienguyen/la-wed-be/internal/media/types"
)

// mockRepo is an in-memory MediaRepo with per-method error overrides.
type mockRepo struct {
	assets map[string]*MediaAsset

	createErr     error
	updateErr     error
	hardDeleteErr map[string]error

	listFeaturedCalls int
	reorderCalls      int
	lastCutoff        time.Time
	lastListReq       *types.ListMediaRequest
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		assets:        make(map[string]*MediaAsset),
		hardDeleteErr: make(map[string]error),
	}
}

func (m *mockRepo) Create(_ context.Context, asset *MediaAsset) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*MediaAsset, error) {
	asset, ok := m.assets[id]
	if !ok || asset.IsDeleted() {
		return nil, ErrMediaNotFound
	}
	return asset, nil
}

func (m *mockRepo) GetByIDIncludingDeleted(_ context.Context, id string) (*MediaAsset, error) {
	asset, ok := m.assets[id]
	if !ok {
		return nil, ErrMediaNotFound
	}
	return asset, nil
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []string) ([]*MediaAsset, error) {
	var out []*MediaAsset
	for _, id := range ids {
		if asset, ok := m.assets[id]; ok && !asset.IsDeleted() {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (m *mockRepo) List(_ context.Context, req *types.ListMediaRequest) ([]*MediaAsset, int64, error) {
	m.lastListReq = req
	var out []*MediaAsset
	for _, asset := range m.assets {
		if asset.IsDeleted() {
			continue
		}
		out = append(out, asset)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepo) ListFeatured(_ context.Context) ([]*MediaAsset, error) {
	m.listFeaturedCalls++
	var out []*MediaAsset
	for _, asset := range m.assets {
		if asset.Featured && !asset.IsDeleted() {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, asset *MediaAsset) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.assets[asset.ID]; !ok {
		return ErrMediaNotFound
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	asset, ok := m.assets[id]
	if !ok || asset.IsDeleted() {
		return ErrMediaNotFound
	}
	t := at
	asset.DeletedAt = &t
	return nil
}

func (m *mockRepo) SoftDeleteBatch(_ context.Context, ids []string, at time.Time) (int64, error) {
	var count int64
	for _, id := range ids {
		if asset, ok := m.assets[id]; ok && !asset.IsDeleted() {
			t := at
			asset.DeletedAt = &t
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) Restore(_ context.Context, id string) error {
	asset, ok := m.assets[id]
	if !ok || !asset.IsDeleted() {
		return ErrMediaNotFound
	}
	asset.DeletedAt = nil
	return nil
}

func (m *mockRepo) HardDelete(_ context.Context, id string) error {
	if err := m.hardDeleteErr[id]; err != nil {
		return err
	}
	if _, ok := m.assets[id]; !ok {
		return ErrMediaNotFound
	}
	delete(m.assets, id)
	return nil
}

func (m *mockRepo) ListDeletedBefore(_ context.Context, cutoff time.Time) ([]*MediaAsset, error) {
	m.lastCutoff = cutoff
	var out []*MediaAsset
	for _, asset := range m.assets {
		if asset.IsDeleted() && !asset.DeletedAt.After(cutoff) {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateDisplayOrders(_ context.Context, items []types.ReorderItem) error {
	m.reorderCalls++
	for _, item := range items {
		asset, ok := m.assets[item.ID]
		if !ok {
			return ErrMediaNotFound
		}
		asset.DisplayOrder = item.DisplayOrder
	}
	return nil
}

func (m *mockRepo) Stats(_ context.Context) (*types.MediaStats, error) {
	stats := &types.MediaStats{ByCategory: make(map[types.Category]int64)}
	for _, asset := range m.assets {
		if asset.IsDeleted() {
			continue
		}
		stats.Total++
		switch asset.MediaType {
		case types.MediaTypeImage:
			stats.Images++
		case types.MediaTypeVideo:
			stats.Videos++
		}
		if asset.Featured {
			stats.Featured++
		}
		stats.ByCategory[asset.Category]++
	}
	return stats, nil
}

// mockStore records object-store calls.
type mockStore struct {
	configured bool
	deleted    [][]string
	failKeys   map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{
		configured: true,
		failKeys:   make(map[string]error),
	}
}

func (m *mockStore) Upload(_ context.Context, _ []byte, key, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, []string{key})
	return nil
}

func (m *mockStore) BatchDelete(_ context.Context, keys []string) *BatchDeleteResult {
	m.deleted = append(m.deleted, keys)
	res := &BatchDeleteResult{}
	for _, key := range keys {
		if err, ok := m.failKeys[key]; ok {
			res.Failed = append(res.Failed, key)
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Succeeded = append(res.Succeeded, key)
	}
	return res
}

func (m *mockStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (m *mockStore) IsConfigured() bool {
	return m.configured
}

func (m *mockStore) allDeleted() []string {
	var out []string
	for _, batch := range m.deleted {
		out = append(out, batch...)
	}
	return out
}

// mockProcessor returns a canned result or error.
type mockProcessor struct {
	result *UploadResult
	err    error
	calls  int
}

func (m *mockProcessor) Upload(_ context.Context, _ *types.UploadedFile) (*UploadResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func imageResult() *UploadResult {
	return &UploadResult{
		MediaType:   types.MediaTypeImage,
		OriginalURL: "https://cdn.test/gallery/images/2025/06/22/abc.jpg",
		Keys: map[types.Variant]string{
			types.VariantOriginal:  "gallery/images/2025/06/22/abc.jpg",
			types.VariantThumbnail: "gallery/images/2025/06/22/abc-thumbnail.jpg",
			types.VariantMedium:    "gallery/images/2025/06/22/abc-medium.jpg",
			types.VariantLarge:     "gallery/images/2025/06/22/abc-large.jpg",
		},
		URLs: map[types.Variant]string{
			types.VariantOriginal:  "https://cdn.test/gallery/images/2025/06/22/abc.jpg",
			types.VariantThumbnail: "https://cdn.test/gallery/images/2025/06/22/abc-thumbnail.jpg",
			types.VariantMedium:    "https://cdn.test/gallery/images/2025/06/22/abc-medium.jpg",
			types.VariantLarge:     "https://cdn.test/gallery/images/2025/06/22/abc-large.jpg",
		},
		Metadata: map[string]interface{}{"width": 2000, "height": 1500},
	}
}

func videoResult() *UploadResult {
	return &UploadResult{
		MediaType:   types.MediaTypeVideo,
		OriginalURL: "https://cdn.test/gallery/videos/2025/06/22/vid.mp4",
		Keys: map[types.Variant]string{
			types.VariantOriginal:  "gallery/videos/2025/06/22/vid.mp4",
			types.VariantThumbnail: "gallery/videos/2025/06/22/vid-thumbnail.jpg",
		},
		URLs: map[types.Variant]string{
			types.VariantOriginal:  "https://cdn.test/gallery/videos/2025/06/22/vid.mp4",
			types.VariantThumbnail: "https://cdn.test/gallery/videos/2025/06/22/vid-thumbnail.jpg",
		},
		Metadata: map[string]interface{}{"duration": 10.1, "width": 1280, "height": 720},
	}
}
