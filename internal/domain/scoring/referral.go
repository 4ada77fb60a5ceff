package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	tierHighBelow = 5
	tierMidBelow  = 15

	tierHighPoints = 10
	tierMidPoints  = 5
	tierLowPoints  = 1
)

// TierFor returns the bonus for the next referral given how many referrals
// the referrer has already been paid for.
func TierFor(priorReferralCount int) int {
	switch {
	case priorReferralCount < tierHighBelow:
		return tierHighPoints
	case priorReferralCount < tierMidBelow:
		return tierMidPoints
	default:
		return tierLowPoints
	}
}

type Referral struct {
	pointRepo repository.PointLedgerRepository
	userRepo  repository.UserRepository
	ledger    *Ledger
}

func NewReferral(
	pointRepo repository.PointLedgerRepository,
	userRepo repository.UserRepository,
	ledger *Ledger,
) *Referral {
	return &Referral{
		pointRepo: pointRepo,
		userRepo:  userRepo,
		ledger:    ledger,
	}
}

// ReferralCount is the number of referrals the user has already been paid
// for. It doubles as a display statistic and the tier key of the next award.
func (r *Referral) ReferralCount(ctx context.Context, userID string) (int, error) {
	count, err := r.pointRepo.Count(ctx, repository.CountPointEntryFilter{
		UserID:     userID,
		SourceType: entity.SourceReferral,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count referral entries: %v", err)
		return 0, errorx.Unknown
	}

	return int(count), nil
}

// CheckAndAward pays the referrer of newUserID once the trigger condition is
// met (first feedback submitted, or an orphaned feedback linked to a new
// account). It returns false when the user has no referrer or the referral
// was already paid. The tier read and the insert run in one transaction so
// concurrent triggers cannot skip a tier.
func (r *Referral) CheckAndAward(ctx context.Context, newUserID string) (bool, error) {
	user, err := r.userRepo.GetByID(ctx, newUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Referral trigger for unknown user %s", newUserID)
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return false, errorx.Unknown
	}

	if !user.ReferredBy.Valid {
		return false, nil
	}

	referrerID := user.ReferredBy.String

	awarded, err := r.ledger.HasAward(ctx, referrerID, entity.SourceReferral, newUserID)
	if err != nil {
		return false, err
	}

	if awarded {
		return false, nil
	}

	var amount int
	err = xcontext.WithDBTransaction(ctx, func(ctx context.Context) error {
		count, err := r.pointRepo.Count(ctx, repository.CountPointEntryFilter{
			UserID:     referrerID,
			SourceType: entity.SourceReferral,
		})
		if err != nil {
			return err
		}

		amount = TierFor(int(count))
		comment := fmt.Sprintf("Referral bonus for user %s (prior referrals: %d)", newUserID, count)
		return r.pointRepo.Create(ctx,
			r.ledger.newEntry(referrerID, entity.SourceReferral, newUserID, amount, comment))
	})
	if err != nil {
		// A concurrent trigger may have paid this referral already.
		_, getErr := r.pointRepo.GetByKey(ctx, referrerID, entity.SourceReferral, newUserID)
		if getErr == nil {
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create referral entry: %v", err)
		return false, errorx.Unknown
	}

	r.ledger.leaderboard.AddPoints(ctx, referrerID, amount)
	return true, nil
}
