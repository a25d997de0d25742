package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/logger"
)

// MediaRepo is the catalog persistence contract. Read methods exclude
// soft-deleted rows unless stated otherwise; lookups of missing rows return
// ErrMediaNotFound.
type MediaRepo interface {
	Create(ctx context.Context, asset *MediaAsset) error
	GetByID(ctx context.Context, id string) (*MediaAsset, error)
	GetByIDIncludingDeleted(ctx context.Context, id string) (*MediaAsset, error)
	GetByIDs(ctx context.Context, ids []string) ([]*MediaAsset, error)
	List(ctx context.Context, req *types.ListMediaRequest) ([]*MediaAsset, int64, error)
	ListFeatured(ctx context.Context) ([]*MediaAsset, error)
	Update(ctx context.Context, asset *MediaAsset) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	SoftDeleteBatch(ctx context.Context, ids []string, at time.Time) (int64, error)
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*MediaAsset, error)
	// UpdateDisplayOrders applies every item inside one transaction:
	// all commit or all roll back.
	UpdateDisplayOrders(ctx context.Context, items []types.ReorderItem) error
	Stats(ctx context.Context) (*types.MediaStats, error)
}

// BatchDeleteResult isolates per-key outcomes of a batch object deletion.
// One key's failure never aborts the others.
type BatchDeleteResult struct {
	Succeeded []string
	Failed    []string
	Errors    []error
}

// ObjectStore is the binary storage contract (S3-compatible).
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	BatchDelete(ctx context.Context, keys []string) *BatchDeleteResult
	PublicURL(key string) string
	IsConfigured() bool
}

// ImageProcessor validates an image upload, stores the original plus the
// resized variants and reports the result.
type ImageProcessor interface {
	Upload(ctx context.Context, file *types.UploadedFile) (*UploadResult, error)
}

// VideoProcessor validates a video upload, probes its technical metadata,
// stores the original plus an extracted thumbnail frame and reports the
// result.
type VideoProcessor interface {
	Upload(ctx context.Context, file *types.UploadedFile) (*UploadResult, error)
}

// MediaUseCase orchestrates the gallery media pipeline and owns the catalog
// record lifecycle: UPLOADING -> ACTIVE -> SOFT_DELETED -> restored or hard
// deleted.
type MediaUseCase struct {
	repo   MediaRepo
	store  ObjectStore
	images ImageProcessor
	videos VideoProcessor
	cache  *FeaturedCache
	clock  func() time.Time
	idGen  func() string
	logger *logger.Logger
}

// NewMediaUseCase wires the orchestrator. A nil cache gets a default one so
// the featured read path always works.
func NewMediaUseCase(
	repo MediaRepo,
	store ObjectStore,
	images ImageProcessor,
	videos VideoProcessor,
	cache *FeaturedCache,
	log *logger.Logger,
) *MediaUseCase {
	if cache == nil {
		cache = NewFeaturedCache(DefaultFeaturedCacheTTL, nil)
	}
	if log == nil {
		log = logger.L()
	}
	return &MediaUseCase{
		repo:   repo,
		store:  store,
		images: images,
		videos: videos,
		cache:  cache,
		clock:  time.Now,
		idGen:  func() string { return uuid.New().String() },
		logger: log,
	}
}

// UploadMedia runs the full pipeline for one upload: kind dispatch from the
// declared MIME type, processing, object-store writes, then the catalog
// insert. Object writes happen before the row is created; if the insert
// fails, the keys written for this upload are compensated with a batch
// delete so no orphaned objects survive a catalog failure.
func (uc *MediaUseCase) UploadMedia(ctx context.Context, file *types.UploadedFile, meta *types.UploadMetadata) (*MediaAsset, error) {
	if !uc.store.IsConfigured() {
		return nil, ErrStoreNotConfigured
	}
	if file == nil {
		return nil, &ValidationError{Reason: ReasonEmptyBuffer, Detail: "no file provided"}
	}
	if meta == nil {
		meta = &types.UploadMetadata{}
	}
	if meta.Category == "" {
		meta.Category = types.CategoryOther
	}
	if !meta.Category.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, meta.Category)
	}

	var (
		result *UploadResult
		err    error
	)
	switch {
	case strings.HasPrefix(file.ContentType, "image/"):
		result, err = uc.images.Upload(ctx, file)
	case strings.HasPrefix(file.ContentType, "video/"):
		result, err = uc.videos.Upload(ctx, file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, file.ContentType)
	}
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	asset := &MediaAsset{
		ID:           uc.idGen(),
		Filename:     file.Filename,
		Title:        meta.Title,
		Caption:      meta.Caption,
		AltText:      meta.AltText,
		MediaType:    result.MediaType,
		Category:     meta.Category,
		ObjectKey:    result.Keys[types.VariantOriginal],
		Keys:         result.Keys,
		URLs:         result.URLs,
		Featured:     meta.Featured,
		DisplayOrder: meta.DisplayOrder,
		Metadata:     result.Metadata,
		Location:     meta.Location,
		Photographer: meta.Photographer,
		DateTaken:    meta.DateTaken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, asset); err != nil {
		// Compensate the already-written objects so a catalog failure
		// leaves no orphans behind.
		uc.compensateUpload(ctx, result)
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	uc.logger.Info("media uploaded",
		zap.String("id", asset.ID),
		zap.String("media_type", asset.MediaType.String()),
		zap.String("category", asset.Category.String()),
		zap.Int("stored_objects", len(asset.Keys)))

	if asset.Featured {
		uc.cache.Invalidate()
	}

	return asset, nil
}

func (uc *MediaUseCase) compensateUpload(ctx context.Context, result *UploadResult) {
	keys := make([]string, 0, len(result.Keys))
	for _, k := range result.Keys {
		keys = append(keys, k)
	}
	res := uc.store.BatchDelete(ctx, keys)
	if len(res.Failed) > 0 {
		uc.logger.Error("failed to clean up objects after catalog failure",
			zap.Strings("keys", res.Failed))
	}
}

// GetMediaByID returns one non-deleted asset.
func (uc *MediaUseCase) GetMediaByID(ctx context.Context, id string) (*MediaAsset, error) {
	if id == "" {
		return nil, ErrMediaNotFound
	}
	return uc.repo.GetByID(ctx, id)
}

// GetMediaList filters, sorts and paginates the catalog.
func (uc *MediaUseCase) GetMediaList(ctx context.Context, req *types.ListMediaRequest) ([]*MediaAsset, int64, error) {
	if req == nil {
		req = &types.ListMediaRequest{}
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}
	if req.Category != "" && !req.Category.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidCategory, req.Category)
	}
	return uc.repo.List(ctx, req)
}

// SearchMedia performs a case-insensitive substring search across filename,
// title, caption and alt text.
func (uc *MediaUseCase) SearchMedia(ctx context.Context, query string, page, pageSize int) ([]*MediaAsset, int64, error) {
	return uc.GetMediaList(ctx, &types.ListMediaRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   query,
	})
}

// GetMediaByCategory lists non-deleted assets of one category.
func (uc *MediaUseCase) GetMediaByCategory(ctx context.Context, category types.Category, page, pageSize int) ([]*MediaAsset, int64, error) {
	if !category.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	return uc.GetMediaList(ctx, &types.ListMediaRequest{
		Page:     page,
		PageSize: pageSize,
		Category: category,
	})
}

// GetFeaturedMedia serves the featured listing through the single-slot
// cache: a fresh slot is returned as-is, otherwise the listing is recomputed
// from the catalog and the slot repopulated.
func (uc *MediaUseCase) GetFeaturedMedia(ctx context.Context) ([]*MediaAsset, error) {
	if cached, ok := uc.cache.Get(); ok {
		return cached, nil
	}

	assets, err := uc.repo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(assets)
	return assets, nil
}

// UpdateMediaMetadata applies a partial field update. Stored objects are
// never touched.
func (uc *MediaUseCase) UpdateMediaMetadata(ctx context.Context, id string, req *types.UpdateMediaRequest) (*MediaAsset, error) {
	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return asset, nil
	}

	wasFeatured := asset.Featured

	if req.Title != nil {
		asset.Title = *req.Title
	}
	if req.Caption != nil {
		asset.Caption = *req.Caption
	}
	if req.AltText != nil {
		asset.AltText = *req.AltText
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, *req.Category)
		}
		asset.Category = *req.Category
	}
	if req.Featured != nil {
		asset.Featured = *req.Featured
	}
	if req.DisplayOrder != nil {
		asset.DisplayOrder = *req.DisplayOrder
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.Photographer != nil {
		asset.Photographer = *req.Photographer
	}
	if req.DateTaken != nil {
		asset.DateTaken = req.DateTaken
	}
	asset.UpdatedAt = uc.clock()

	if err := uc.repo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update media: %w", err)
	}

	if wasFeatured || asset.Featured {
		uc.cache.Invalidate()
	}

	return asset, nil
}

// DeleteMedia soft-deletes an asset: it disappears from every default read
// path but remains restorable.
func (uc *MediaUseCase) DeleteMedia(ctx context.Context, id string) error {
	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.SoftDelete(ctx, id, uc.clock()); err != nil {
		return err
	}

	uc.logger.Info("media soft-deleted", zap.String("id", id))

	if asset.Featured {
		uc.cache.Invalidate()
	}
	return nil
}

// BulkDeleteMedia soft-deletes a batch of assets in one statement.
func (uc *MediaUseCase) BulkDeleteMedia(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	assets, err := uc.repo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	count, err := uc.repo.SoftDeleteBatch(ctx, ids, uc.clock())
	if err != nil {
		return 0, err
	}

	uc.logger.Info("media bulk soft-deleted",
		zap.Int("requested", len(ids)),
		zap.Int64("deleted", count))

	for _, a := range assets {
		if a.Featured {
			uc.cache.Invalidate()
			break
		}
	}
	return count, nil
}

// RestoreDeletedMedia clears the deletion timestamp of a soft-deleted asset.
func (uc *MediaUseCase) RestoreDeletedMedia(ctx context.Context, id string) (*MediaAsset, error) {
	if err := uc.repo.Restore(ctx, id); err != nil {
		return nil, err
	}

	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("media restored", zap.String("id", id))

	if asset.Featured {
		uc.cache.Invalidate()
	}
	return asset, nil
}

// HardDeleteMedia irreversibly removes the catalog row and every stored
// object of the asset. Object deletion failures are logged but never block
// row deletion: the catalog is authoritative even if a stray object
// survives.
func (uc *MediaUseCase) HardDeleteMedia(ctx context.Context, id string) error {
	asset, err := uc.repo.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	return uc.hardDelete(ctx, asset)
}

func (uc *MediaUseCase) hardDelete(ctx context.Context, asset *MediaAsset) error {
	keys := asset.AllKeys()
	if len(keys) > 0 {
		res := uc.store.BatchDelete(ctx, keys)
		if len(res.Failed) > 0 {
			uc.logger.Warn("object cleanup incomplete during hard delete",
				zap.String("id", asset.ID),
				zap.Strings("failed_keys", res.Failed))
		}
	}

	if err := uc.repo.HardDelete(ctx, asset.ID); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	uc.logger.Info("media hard-deleted",
		zap.String("id", asset.ID),
		zap.Int("objects", len(keys)))

	if asset.Featured {
		uc.cache.Invalidate()
	}
	return nil
}

// CleanupDeletedMedia hard-deletes every asset soft-deleted at or before
// now-olderThanDays. Each asset is processed independently; a failure is
// recorded and the sweep continues.
func (uc *MediaUseCase) CleanupDeletedMedia(ctx context.Context, olderThanDays int) (*types.CleanupResult, error) {
	if olderThanDays < 0 {
		olderThanDays = 0
	}
	cutoff := uc.clock().AddDate(0, 0, -olderThanDays)

	assets, err := uc.repo.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted media: %w", err)
	}

	result := &types.CleanupResult{}
	for _, asset := range assets {
		if err := uc.hardDelete(ctx, asset); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", asset.ID, err))
			uc.logger.Error("retention sweep item failed",
				zap.String("id", asset.ID),
				zap.Error(err))
			continue
		}
		result.DeletedCount++
	}

	uc.logger.Info("retention sweep finished",
		zap.Int("deleted", result.DeletedCount),
		zap.Int("failed", result.FailedCount),
		zap.Time("cutoff", cutoff))

	return result, nil
}

// ReorderMedia applies a bulk display-order update. Every id must name an
// existing, non-deleted asset; otherwise the call fails with the missing ids
// and no order changes. The updates themselves run in one transaction.
func (uc *MediaUseCase) ReorderMedia(ctx context.Context, items []types.ReorderItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	assets, err := uc.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	found := make(map[string]*MediaAsset, len(assets))
	for _, a := range assets {
		found[a.ID] = a
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &ReorderError{MissingIDs: missing}
	}

	if err := uc.repo.UpdateDisplayOrders(ctx, items); err != nil {
		return fmt.Errorf("failed to reorder media: %w", err)
	}

	uc.logger.Info("media reordered", zap.Int("items", len(items)))

	for _, a := range assets {
		if a.Featured {
			uc.cache.Invalidate()
			break
		}
	}
	return nil
}

// GetMediaStats returns aggregate counts over the non-deleted catalog.
func (uc *MediaUseCase) GetMediaStats(ctx context.Context) (*types.MediaStats, error) {
	return uc.repo.Stats(ctx)
}
