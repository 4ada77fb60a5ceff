package scoring

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Analyzer struct {
	analysisRepo repository.FeedbackAnalysisRepository
	classifier   *Classifier
}

func NewAnalyzer(
	analysisRepo repository.FeedbackAnalysisRepository,
	classifier *Classifier,
) *Analyzer {
	return &Analyzer{
		analysisRepo: analysisRepo,
		classifier:   classifier,
	}
}

// GetOrCreate returns the analysis row for a feedback item, creating it on
// first request. A feedback without comment gets an all-false zero-word
// analysis. Provider failures degrade to an all-false classification, the
// word count is computed locally either way.
func (a *Analyzer) GetOrCreate(
	ctx context.Context, feedbackID string, comment sql.NullString,
) (*entity.FeedbackAnalysis, error) {
	existing, err := a.analysisRepo.GetByFeedbackID(ctx, feedbackID)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get feedback analysis: %v", err)
		return nil, errorx.Unknown
	}

	var classification entity.Classification
	wordCount := 0
	if comment.Valid && WordCount(comment.String) > 0 {
		wordCount = WordCount(comment.String)

		classification, err = a.classifier.Classify(ctx, comment.String)
		if err != nil {
			if !errors.Is(err, ErrProvider) {
				xcontext.Logger(ctx).Errorf("Cannot classify comment: %v", err)
				return nil, errorx.Unknown
			}

			// Degrade-not-fail: feedback acceptance never waits on the
			// classifier.
			xcontext.Logger(ctx).Warnf(
				"Classifier unavailable for feedback %s, storing conservative defaults", feedbackID)
			classification = entity.Classification{}
		}
	}

	analysis := &entity.FeedbackAnalysis{
		Base:           entity.Base{ID: uuid.NewString()},
		FeedbackID:     feedbackID,
		Classification: classification,
		WordCount:      wordCount,
	}

	inserted, err := a.analysisRepo.Create(ctx, analysis)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create feedback analysis: %v", err)
		return nil, errorx.Unknown
	}

	if !inserted {
		// A concurrent first-creation won the insert, return its row.
		winner, err := a.analysisRepo.GetByFeedbackID(ctx, feedbackID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot refetch feedback analysis after conflict: %v", err)
			return nil, errorx.Unknown
		}

		return winner, nil
	}

	return analysis, nil
}

// Update overwrites the category flags of an existing analysis. Used by
// human re-review and admin correction, reviewedAt is left untouched.
func (a *Analyzer) Update(
	ctx context.Context, feedbackID string, c entity.Classification,
) error {
	err := a.analysisRepo.UpdateClassification(ctx, feedbackID, c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found analysis of feedback %s", feedbackID)
		}

		xcontext.Logger(ctx).Errorf("Cannot update feedback analysis: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (a *Analyzer) MarkReviewed(ctx context.Context, feedbackID string, reviewedAt time.Time) error {
	err := a.analysisRepo.MarkReviewed(ctx, feedbackID, reviewedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found analysis of feedback %s", feedbackID)
		}

		xcontext.Logger(ctx).Errorf("Cannot mark feedback analysis as reviewed: %v", err)
		return errorx.Unknown
	}

	return nil
}
