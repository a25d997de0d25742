package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/database"
)

// VariantMapJSON stores the per-variant key/url maps as a JSONB column.
type VariantMapJSON map[string]string

func (j *VariantMapJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j VariantMapJSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// MetadataJSON stores the technical metadata extracted at upload time.
type MetadataJSON map[string]interface{}

func (j *MetadataJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j MetadataJSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// MediaPO represents the database model
type MediaPO struct {
	ID       string `gorm:"type:uuid;primarykey"`
	Filename string `gorm:"size:255;not null"`

	Title   string `gorm:"size:255"`
	Caption string `gorm:"type:text"`
	AltText string `gorm:"size:255"`

	MediaType string `gorm:"size:16;not null;index"`
	Category  string `gorm:"size:32;not null;index"`

	ObjectKey string         `gorm:"size:512;not null"`
	Keys      VariantMapJSON `gorm:"type:jsonb"`
	URLs      VariantMapJSON `gorm:"type:jsonb"`

	Featured     bool `gorm:"not null;default:false;index"`
	DisplayOrder int  `gorm:"not null;default:0"`

	Metadata MetadataJSON `gorm:"type:jsonb"`

	Location     string `gorm:"size:255"`
	Photographer string `gorm:"size:255"`
	DateTaken    *time.Time

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (MediaPO) TableName() string {
	return "media"
}

// sortColumns is the allowlist for client-chosen ordering.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"display_order": "display_order",
	"filename":      "filename",
	"date_taken":    "date_taken",
}

// MediaRepo implements biz.MediaRepo on PostgreSQL.
type MediaRepo struct {
	db *database.DB
}

func NewMediaRepo(db *database.DB) biz.MediaRepo {
	return &MediaRepo{db: db}
}

func (r *MediaRepo) Create(ctx context.Context, asset *biz.MediaAsset) error {
	po := toPO(asset)
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *MediaRepo) GetByID(ctx context.Context, id string) (*biz.MediaAsset, error) {
	var po MediaPO
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrMediaNotFound
		}
		return nil, err
	}
	return toDomain(&po), nil
}

func (r *MediaRepo) GetByIDIncludingDeleted(ctx context.Context, id string) (*biz.MediaAsset, error) {
	var po MediaPO
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrMediaNotFound
		}
		return nil, err
	}
	return toDomain(&po), nil
}

func (r *MediaRepo) GetByIDs(ctx context.Context, ids []string) ([]*biz.MediaAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var pos []MediaPO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pos).Error; err != nil {
		return nil, err
	}
	return toDomainList(pos), nil
}

func (r *MediaRepo) List(ctx context.Context, req *types.ListMediaRequest) ([]*biz.MediaAsset, int64, error) {
	query := r.db.WithContext(ctx).Model(&MediaPO{})

	if req.Category != "" {
		query = query.Where("category = ?", req.Category.String())
	}
	if req.MediaType != "" {
		query = query.Where("media_type = ?", req.MediaType.String())
	}
	if req.Featured != nil {
		query = query.Where("featured = ?", *req.Featured)
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query = query.Where(
			"filename ILIKE ? OR title ILIKE ? OR caption ILIKE ? OR alt_text ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[req.SortBy]
	if !ok {
		column = "created_at"
		if req.SortBy == "" {
			req.SortDesc = true
		}
	}
	direction := "ASC"
	if req.SortDesc {
		direction = "DESC"
	}

	var pos []MediaPO
	err := query.
		Order(fmt.Sprintf("%s %s", column, direction)).
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	return toDomainList(pos), total, nil
}

func (r *MediaRepo) ListFeatured(ctx context.Context) ([]*biz.MediaAsset, error) {
	var pos []MediaPO
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("display_order ASC, created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(pos), nil
}

func (r *MediaRepo) Update(ctx context.Context, asset *biz.MediaAsset) error {
	updates := map[string]interface{}{
		"title":         asset.Title,
		"caption":       asset.Caption,
		"alt_text":      asset.AltText,
		"category":      asset.Category.String(),
		"featured":      asset.Featured,
		"display_order": asset.DisplayOrder,
		"location":      asset.Location,
		"photographer":  asset.Photographer,
		"date_taken":    asset.DateTaken,
		"updated_at":    asset.UpdatedAt,
	}

	result := r.db.WithContext(ctx).
		Model(&MediaPO{}).
		Where("id = ?", asset.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&MediaPO{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepo) SoftDeleteBatch(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&MediaPO{}).
		Where("id IN ?", ids).
		Update("deleted_at", at)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *MediaRepo) Restore(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&MediaPO{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepo) HardDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&MediaPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepo) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*biz.MediaAsset, error) {
	var pos []MediaPO
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at <= ?", cutoff).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(pos), nil
}

func (r *MediaRepo) UpdateDisplayOrders(ctx context.Context, items []types.ReorderItem) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, item := range items {
			result := tx.Model(&MediaPO{}).
				Where("id = ?", item.ID).
				Update("display_order", item.DisplayOrder)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return biz.ErrMediaNotFound
			}
		}
		return nil
	})
}

func (r *MediaRepo) Stats(ctx context.Context) (*types.MediaStats, error) {
	stats := &types.MediaStats{
		ByCategory: make(map[types.Category]int64),
	}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&MediaPO{})
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("media_type = ?", types.MediaTypeImage.String()).Count(&stats.Images).Error; err != nil {
		return nil, err
	}
	if err := base().Where("media_type = ?", types.MediaTypeVideo.String()).Count(&stats.Videos).Error; err != nil {
		return nil, err
	}
	if err := base().Where("featured = ?", true).Count(&stats.Featured).Error; err != nil {
		return nil, err
	}

	type categoryCount struct {
		Category string
		Count    int64
	}
	var counts []categoryCount
	err := base().
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ByCategory[types.Category(c.Category)] = c.Count
	}

	return stats, nil
}

func toPO(asset *biz.MediaAsset) *MediaPO {
	po := &MediaPO{
		ID:           asset.ID,
		Filename:     asset.Filename,
		Title:        asset.Title,
		Caption:      asset.Caption,
		AltText:      asset.AltText,
		MediaType:    asset.MediaType.String(),
		Category:     asset.Category.String(),
		ObjectKey:    asset.ObjectKey,
		Keys:         variantMapToJSON(asset.Keys),
		URLs:         variantMapToJSON(asset.URLs),
		Featured:     asset.Featured,
		DisplayOrder: asset.DisplayOrder,
		Metadata:     MetadataJSON(asset.Metadata),
		Location:     asset.Location,
		Photographer: asset.Photographer,
		DateTaken:    asset.DateTaken,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
	if asset.DeletedAt != nil {
		po.DeletedAt = gorm.DeletedAt{Time: *asset.DeletedAt, Valid: true}
	}
	return po
}

func toDomain(po *MediaPO) *biz.MediaAsset {
	asset := &biz.MediaAsset{
		ID:           po.ID,
		Filename:     po.Filename,
		Title:        po.Title,
		Caption:      po.Caption,
		AltText:      po.AltText,
		MediaType:    types.MediaType(po.MediaType),
		Category:     types.Category(po.Category),
		ObjectKey:    po.ObjectKey,
		Keys:         variantMapFromJSON(po.Keys),
		URLs:         variantMapFromJSON(po.URLs),
		Featured:     po.Featured,
		DisplayOrder: po.DisplayOrder,
		Metadata:     map[string]interface{}(po.Metadata),
		Location:     po.Location,
		Photographer: po.Photographer,
		DateTaken:    po.DateTaken,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
	if po.DeletedAt.Valid {
		t := po.DeletedAt.Time
		asset.DeletedAt = &t
	}
	return asset
}

func toDomainList(pos []MediaPO) []*biz.MediaAsset {
	assets := make([]*biz.MediaAsset, len(pos))
	for i := range pos {
		assets[i] = toDomain(&pos[i])
	}
	return assets
}

func variantMapToJSON(m map[types.Variant]string) VariantMapJSON {
	if m == nil {
		return nil
	}
	out := make(VariantMapJSON, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}

func variantMapFromJSON(m VariantMapJSON) map[types.Variant]string {
	if m == nil {
		return nil
	}
	out := make(map[types.Variant]string, len(m))
	for k, v := range m {
		out[types.Variant(k)] = v
	}
	return out
}
