package scoring

import (
	"context"
	"errors"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Service is the in-process surface the surrounding feedback and moderation
// workflows call into. Every operation is safe to retrigger, the ledger
// converges to the correct amounts for the current facts.
type Service struct {
	feedbackRepo repository.FeedbackRepository
	analysisRepo repository.FeedbackAnalysisRepository
	cacheRepo    repository.ClassificationCacheRepository

	analyzer *Analyzer
	ledger   *Ledger
	referral *Referral
}

func NewService(
	feedbackRepo repository.FeedbackRepository,
	analysisRepo repository.FeedbackAnalysisRepository,
	cacheRepo repository.ClassificationCacheRepository,
	analyzer *Analyzer,
	ledger *Ledger,
	referral *Referral,
) *Service {
	return &Service{
		feedbackRepo: feedbackRepo,
		analysisRepo: analysisRepo,
		cacheRepo:    cacheRepo,
		analyzer:     analyzer,
		ledger:       ledger,
		referral:     referral,
	}
}

// HandleFeedbackSubmitted analyzes a newly submitted feedback item, records
// its award and fires the referral trigger for the author. Scoring failures
// after the analysis exists are logged, submission itself never fails here.
func (s *Service) HandleFeedbackSubmitted(ctx context.Context, feedbackID string) error {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found feedback %s", feedbackID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get feedback: %v", err)
		return errorx.Unknown
	}

	analysis, err := s.analyzer.GetOrCreate(ctx, feedback.ID, feedback.Comment)
	if err != nil {
		return err
	}

	// No transaction spans the analysis and the award. If the award write is
	// lost, a later re-approval or recalculation re-derives it.
	_, err = s.ledger.UpsertFeedbackAward(
		ctx, feedback.UserID, feedback.ID, feedback.ApprovedAt.Valid, analysis)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot upsert award of feedback %s: %v", feedback.ID, err)
	}

	// The referral trigger fires on the author's first feedback only. A
	// failed count falls through to the check, which is idempotent anyway.
	count, err := s.feedbackRepo.CountByUserID(ctx, feedback.UserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot count feedbacks of user %s: %v", feedback.UserID, err)
		count = 1
	}

	if count == 1 {
		if _, err := s.referral.CheckAndAward(ctx, feedback.UserID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot run referral check for user %s: %v", feedback.UserID, err)
		}
	}

	return nil
}

// HandleApprovalChanged zeroes or restores the feedback award after a
// moderation decision.
func (s *Service) HandleApprovalChanged(
	ctx context.Context, feedbackID string, approved bool, reason string,
) error {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found feedback %s", feedbackID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get feedback: %v", err)
		return errorx.Unknown
	}

	if approved {
		_, err = s.ledger.Restore(ctx, feedback.UserID, feedback.ID)
		return err
	}

	return s.ledger.ZeroOut(ctx, feedback.UserID, feedback.ID, reason)
}

// HandleReanalysis applies an admin-corrected classification and converges
// the award to it.
func (s *Service) HandleReanalysis(
	ctx context.Context, feedbackID string, c entity.Classification,
) error {
	if err := s.analyzer.Update(ctx, feedbackID, c); err != nil {
		return err
	}

	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feedback: %v", err)
		return errorx.Unknown
	}

	analysis, err := s.analysisRepo.GetByFeedbackID(ctx, feedbackID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feedback analysis: %v", err)
		return errorx.Unknown
	}

	_, err = s.ledger.UpsertFeedbackAward(
		ctx, feedback.UserID, feedback.ID, feedback.ApprovedAt.Valid, analysis)
	return err
}

// CacheStats exposes cache size and hit totals for the admin dashboard.
func (s *Service) CacheStats(ctx context.Context) (*repository.CacheStats, error) {
	stats, err := s.cacheRepo.Stats(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load cache stats: %v", err)
		return nil, errorx.Unknown
	}

	return stats, nil
}
