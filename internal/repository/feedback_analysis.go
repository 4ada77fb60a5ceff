package repository

import (
	"context"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackAnalysisRepository interface {
	GetByFeedbackID(ctx context.Context, feedbackID string) (*entity.FeedbackAnalysis, error)
	Create(ctx context.Context, analysis *entity.FeedbackAnalysis) (inserted bool, err error)
	UpdateClassification(ctx context.Context, feedbackID string, c entity.Classification) error
	MarkReviewed(ctx context.Context, feedbackID string, reviewedAt time.Time) error
}

type feedbackAnalysisRepository struct{}

func NewFeedbackAnalysisRepository() *feedbackAnalysisRepository {
	return &feedbackAnalysisRepository{}
}

func (r *feedbackAnalysisRepository) GetByFeedbackID(
	ctx context.Context, feedbackID string,
) (*entity.FeedbackAnalysis, error) {
	var result entity.FeedbackAnalysis
	err := xcontext.DB(ctx).Where("feedback_id=?", feedbackID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create inserts the analysis unless one already exists for the feedback
// item. It reports whether the given row was actually inserted, so a caller
// losing a first-creation race can refetch the winner instead of failing.
func (r *feedbackAnalysisRepository) Create(
	ctx context.Context, analysis *entity.FeedbackAnalysis,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feedback_id"}},
			DoNothing: true,
		}).Create(analysis)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *feedbackAnalysisRepository) UpdateClassification(
	ctx context.Context, feedbackID string, c entity.Classification,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FeedbackAnalysis{}).
		Where("feedback_id=?", feedbackID).
		Updates(map[string]any{
			"has_teaching":   c.HasTeaching,
			"has_assessment": c.HasAssessment,
			"has_materials":  c.HasMaterials,
			"has_tips":       c.HasTips,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *feedbackAnalysisRepository) MarkReviewed(
	ctx context.Context, feedbackID string, reviewedAt time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FeedbackAnalysis{}).
		Where("feedback_id=?", feedbackID).
		Update("reviewed_at", reviewedAt)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
