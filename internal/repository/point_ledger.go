package repository

import (
	"context"
	"errors"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CountPointEntryFilter struct {
	UserID     string
	SourceType entity.PointSourceType
}

type SourceAmount struct {
	SourceType entity.PointSourceType
	Total      int
}

type PointLedgerRepository interface {
	GetByKey(ctx context.Context, userID string, source entity.PointSourceType, referenceID string) (*entity.PointEntry, error)
	Create(ctx context.Context, entry *entity.PointEntry) error
	UpdateAmount(ctx context.Context, userID string, source entity.PointSourceType, referenceID string, amount int, comment string) error
	Count(ctx context.Context, filter CountPointEntryFilter) (int64, error)
	SumAmount(ctx context.Context, userID string) (int, error)
	BreakdownBySource(ctx context.Context, userID string) ([]SourceAmount, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.PointEntry, error)
}

type pointLedgerRepository struct{}

func NewPointLedgerRepository() *pointLedgerRepository {
	return &pointLedgerRepository{}
}

func (r *pointLedgerRepository) GetByKey(
	ctx context.Context, userID string, source entity.PointSourceType, referenceID string,
) (*entity.PointEntry, error) {
	var result entity.PointEntry
	err := xcontext.DB(ctx).
		Where("user_id=? AND source_type=? AND reference_id=?", userID, source, referenceID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create relies on the unique index over (user_id, source_type,
// reference_id). A concurrent duplicate insert surfaces as a constraint
// error which callers treat as "someone already wrote this".
func (r *pointLedgerRepository) Create(ctx context.Context, entry *entity.PointEntry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *pointLedgerRepository) UpdateAmount(
	ctx context.Context,
	userID string, source entity.PointSourceType, referenceID string,
	amount int, comment string,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PointEntry{}).
		Where("user_id=? AND source_type=? AND reference_id=?", userID, source, referenceID).
		Updates(map[string]any{
			"amount":     amount,
			"comment":    comment,
			"updated_at": time.Now(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *pointLedgerRepository) Count(
	ctx context.Context, filter CountPointEntryFilter,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.PointEntry{})

	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.SourceType != "" {
		tx = tx.Where("source_type=?", filter.SourceType)
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *pointLedgerRepository) SumAmount(ctx context.Context, userID string) (int, error) {
	var result int
	err := xcontext.DB(ctx).
		Model(&entity.PointEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *pointLedgerRepository) BreakdownBySource(
	ctx context.Context, userID string,
) ([]SourceAmount, error) {
	var result []SourceAmount
	err := xcontext.DB(ctx).
		Model(&entity.PointEntry{}).
		Select("source_type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id=?", userID).
		Group("source_type").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointLedgerRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.PointEntry, error) {
	var result []entity.PointEntry
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
