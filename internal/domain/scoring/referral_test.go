package scoring

import (
	"fmt"
	"testing"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_TierFor(t *testing.T) {
	require.Equal(t, 10, TierFor(0))
	require.Equal(t, 10, TierFor(4))
	require.Equal(t, 5, TierFor(5))
	require.Equal(t, 5, TierFor(14))
	require.Equal(t, 1, TierFor(15))
	require.Equal(t, 1, TierFor(100))
}

func newReferral() (*Referral, repository.PointLedgerRepository) {
	pointRepo := repository.NewPointLedgerRepository()
	ledger := NewLedger(pointRepo, repository.NewFeedbackAnalysisRepository(), nil)
	return NewReferral(pointRepo, repository.NewUserRepository(), ledger), pointRepo
}

func Test_referral_CheckAndAward(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	referral, pointRepo := newReferral()

	awarded, err := referral.CheckAndAward(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, awarded)

	entry, err := pointRepo.GetByKey(ctx, testutil.Referrer.ID, entity.SourceReferral, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 10, entry.Amount)

	// The second trigger for the same pair is a no-op.
	awarded, err = referral.CheckAndAward(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.False(t, awarded)

	entries, err := pointRepo.GetListByUserID(ctx, testutil.Referrer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	count, err := referral.ReferralCount(ctx, testutil.Referrer.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func Test_referral_CheckAndAward_withoutReferrer(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	referral, _ := newReferral()

	awarded, err := referral.CheckAndAward(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.False(t, awarded)
}

func Test_referral_tierDependsOnPriorCount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	userRepo := repository.NewUserRepository()
	referral, pointRepo := newReferral()

	for i := 0; i < 16; i++ {
		user := &entity.User{
			Base:       entity.Base{ID: fmt.Sprintf("invited%d", i)},
			Email:      fmt.Sprintf("invited%d@example.edu", i),
			ReferredBy: testutil.User1.ReferredBy,
		}
		require.NoError(t, userRepo.Create(ctx, user))

		awarded, err := referral.CheckAndAward(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, awarded)
	}

	tiers := map[string]int{
		"invited0":  10, // prior count 0
		"invited4":  10, // prior count 4
		"invited5":  5,  // prior count 5
		"invited14": 5,  // prior count 14
		"invited15": 1,  // prior count 15
	}
	for userID, expected := range tiers {
		entry, err := pointRepo.GetByKey(ctx, testutil.Referrer.ID, entity.SourceReferral, userID)
		require.NoError(t, err)
		require.Equal(t, expected, entry.Amount, "unexpected tier for %s", userID)
	}

	count, err := referral.ReferralCount(ctx, testutil.Referrer.ID)
	require.NoError(t, err)
	require.Equal(t, 16, count)

	// 5*10 + 10*5 + 1*1
	total, err := pointRepo.SumAmount(ctx, testutil.Referrer.ID)
	require.NoError(t, err)
	require.Equal(t, 101, total)
}
