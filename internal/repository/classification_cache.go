package repository

import (
	"context"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CacheStats struct {
	Entries   int64
	TotalHits int64
}

type ClassificationCacheRepository interface {
	Get(ctx context.Context, commentHash string) (*entity.CommentClassification, error)
	Create(ctx context.Context, record *entity.CommentClassification) error
	RecordUsage(ctx context.Context, commentHash string, hits int64, accessedAt time.Time) error
	DeleteLastAccessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context) (*CacheStats, error)
}

type classificationCacheRepository struct{}

func NewClassificationCacheRepository() *classificationCacheRepository {
	return &classificationCacheRepository{}
}

func (r *classificationCacheRepository) Get(
	ctx context.Context, commentHash string,
) (*entity.CommentClassification, error) {
	var result entity.CommentClassification
	err := xcontext.DB(ctx).Where("comment_hash=?", commentHash).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create inserts the record if the hash is not cached yet. A concurrent
// insert of the same hash wins silently, the existing row is kept.
func (r *classificationCacheRepository) Create(
	ctx context.Context, record *entity.CommentClassification,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_hash"}},
			DoNothing: true,
		}).Create(record).Error
}

func (r *classificationCacheRepository) RecordUsage(
	ctx context.Context, commentHash string, hits int64, accessedAt time.Time,
) error {
	return xcontext.DB(ctx).
		Model(&entity.CommentClassification{}).
		Where("comment_hash=?", commentHash).
		Updates(map[string]any{
			"hit_count":        gorm.Expr("hit_count+?", hits),
			"last_accessed_at": accessedAt,
		}).Error
}

func (r *classificationCacheRepository) DeleteLastAccessedBefore(
	ctx context.Context, cutoff time.Time,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("last_accessed_at < ?", cutoff).
		Delete(&entity.CommentClassification{})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *classificationCacheRepository) Stats(ctx context.Context) (*CacheStats, error) {
	var result CacheStats
	err := xcontext.DB(ctx).
		Model(&entity.CommentClassification{}).
		Select("COUNT(*) AS entries, COALESCE(SUM(hit_count), 0) AS total_hits").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
