package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/xcontext"
	"github.com/bwmarrin/snowflake"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	basePoints         = 1
	perCategoryPoints  = 4
	allCategoriesBonus = 3
)

// CalculateFeedbackPoints derives the award for an approved feedback item
// from its category flags: base 1, +4 per category, +3 if all four match.
// Pure function, re-derivable from the analysis row at any time.
func CalculateFeedbackPoints(c entity.Classification) int {
	matched := c.CountTrue()

	points := basePoints + perCategoryPoints*matched
	if matched == 4 {
		points += allCategoriesBonus
	}

	return points
}

type Ledger struct {
	pointRepo    repository.PointLedgerRepository
	analysisRepo repository.FeedbackAnalysisRepository
	leaderboard  *Leaderboard

	node *snowflake.Node
}

func NewLedger(
	pointRepo repository.PointLedgerRepository,
	analysisRepo repository.FeedbackAnalysisRepository,
	leaderboard *Leaderboard,
) *Ledger {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &Ledger{
		pointRepo:    pointRepo,
		analysisRepo: analysisRepo,
		leaderboard:  leaderboard,
		node:         node,
	}
}

func (l *Ledger) newEntry(
	userID string, source entity.PointSourceType, referenceID string,
	amount int, comment string,
) *entity.PointEntry {
	return &entity.PointEntry{
		SnowflakeBase: entity.SnowflakeBase{ID: l.node.Generate().Int64()},
		UserID:        userID,
		SourceType:    source,
		ReferenceID:   referenceID,
		Amount:        amount,
		Comment:       comment,
	}
}

// UpsertFeedbackAward converges the ledger entry of (userID, submit_feedback,
// feedbackID) to the correct amount for the current approval state and
// analysis. Re-approval, unapproval and re-analysis all funnel through here,
// so calling it repeatedly with the same inputs is a no-op.
func (l *Ledger) UpsertFeedbackAward(
	ctx context.Context,
	userID, feedbackID string,
	approved bool,
	analysis *entity.FeedbackAnalysis,
) (int, error) {
	amount := 0
	comment := fmt.Sprintf("Feedback %s is not approved", feedbackID)
	if approved {
		amount = CalculateFeedbackPoints(analysis.Classification)
		comment = fmt.Sprintf("Approved feedback %s matched %d categories",
			feedbackID, analysis.CountTrue())
	}

	return l.applyAward(ctx, userID, entity.SourceSubmitFeedback, feedbackID, amount, comment)
}

// applyAward is the single write path of the ledger: check-then-update-or-
// insert with recovery when a concurrent writer inserted the key first.
func (l *Ledger) applyAward(
	ctx context.Context,
	userID string, source entity.PointSourceType, referenceID string,
	amount int, comment string,
) (int, error) {
	existing, err := l.pointRepo.GetByKey(ctx, userID, source, referenceID)
	if err == nil {
		if existing.Amount == amount && existing.Comment == comment {
			return amount, nil
		}

		if err := l.pointRepo.UpdateAmount(ctx, userID, source, referenceID, amount, comment); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update ledger entry: %v", err)
			return 0, errorx.Unknown
		}

		l.leaderboard.AddPoints(ctx, userID, amount-existing.Amount)
		return amount, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get ledger entry: %v", err)
		return 0, errorx.Unknown
	}

	err = l.pointRepo.Create(ctx, l.newEntry(userID, source, referenceID, amount, comment))
	if err != nil {
		// A concurrent writer may have taken the key between the lookup and
		// the insert. If the row exists now, converge it instead of failing.
		loser, getErr := l.pointRepo.GetByKey(ctx, userID, source, referenceID)
		if getErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot create ledger entry: %v", err)
			return 0, errorx.Unknown
		}

		if loser.Amount == amount && loser.Comment == comment {
			return amount, nil
		}

		if err := l.pointRepo.UpdateAmount(ctx, userID, source, referenceID, amount, comment); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update ledger entry after conflict: %v", err)
			return 0, errorx.Unknown
		}

		l.leaderboard.AddPoints(ctx, userID, amount-loser.Amount)
		return amount, nil
	}

	l.leaderboard.AddPoints(ctx, userID, amount)
	return amount, nil
}

// ZeroOut sets the feedback award to zero while keeping the row for audit
// history. A missing row is a consistency warning, not an error, moderation
// must never be blocked by the scoring subsystem.
func (l *Ledger) ZeroOut(ctx context.Context, userID, feedbackID, reason string) error {
	existing, err := l.pointRepo.GetByKey(ctx, userID, entity.SourceSubmitFeedback, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf(
				"No ledger entry to zero out for user %s, feedback %s", userID, feedbackID)
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get ledger entry: %v", err)
		return errorx.Unknown
	}

	err = l.pointRepo.UpdateAmount(ctx, userID, entity.SourceSubmitFeedback, feedbackID, 0, reason)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot zero out ledger entry: %v", err)
		return errorx.Unknown
	}

	l.leaderboard.AddPoints(ctx, userID, -existing.Amount)
	return nil
}

// Restore re-derives the award from the current analysis after re-approval.
// A missing analysis row is logged and awards zero rather than blocking the
// approval workflow.
func (l *Ledger) Restore(ctx context.Context, userID, feedbackID string) (int, error) {
	analysis, err := l.analysisRepo.GetByFeedbackID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf(
				"Restoring award of feedback %s without analysis row", feedbackID)
			return l.applyAward(ctx, userID, entity.SourceSubmitFeedback, feedbackID, 0,
				fmt.Sprintf("Restored feedback %s without analysis", feedbackID))
		}

		xcontext.Logger(ctx).Errorf("Cannot get feedback analysis: %v", err)
		return 0, errorx.Unknown
	}

	return l.UpsertFeedbackAward(ctx, userID, feedbackID, true, analysis)
}

// HasAward reports whether a grant exists for the ledger key. Lookup
// failures are propagated (fail-closed) so an outage cannot cause a
// double payment.
func (l *Ledger) HasAward(
	ctx context.Context,
	userID string, source entity.PointSourceType, referenceID string,
) (bool, error) {
	_, err := l.pointRepo.GetByKey(ctx, userID, source, referenceID)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	xcontext.Logger(ctx).Errorf("Cannot check ledger entry existence: %v", err)
	return false, errorx.Unknown
}

func (l *Ledger) TotalPoints(ctx context.Context, userID string) (int, error) {
	total, err := l.pointRepo.SumAmount(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum ledger amounts: %v", err)
		return 0, errorx.Unknown
	}

	return total, nil
}

func (l *Ledger) Breakdown(ctx context.Context, userID string) ([]repository.SourceAmount, error) {
	breakdown, err := l.pointRepo.BreakdownBySource(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load ledger breakdown: %v", err)
		return nil, errorx.Unknown
	}

	slices.SortFunc(breakdown, func(a, b repository.SourceAmount) bool {
		return a.SourceType < b.SourceType
	})

	return breakdown, nil
}
