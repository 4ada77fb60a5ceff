package repository

import (
	"context"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/pkg/xcontext"
)

type FeedbackRepository interface {
	Create(ctx context.Context, data *entity.Feedback) error
	GetByID(ctx context.Context, id string) (*entity.Feedback, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

type feedbackRepository struct{}

func NewFeedbackRepository() *feedbackRepository {
	return &feedbackRepository{}
}

func (r *feedbackRepository) Create(ctx context.Context, data *entity.Feedback) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*entity.Feedback, error) {
	var record entity.Feedback
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *feedbackRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Feedback{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
