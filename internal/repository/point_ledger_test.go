package repository_test

import (
	"errors"
	"testing"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_pointLedgerRepository_uniqueKey(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewPointLedgerRepository()

	err := repo.Create(ctx, &entity.PointEntry{
		SnowflakeBase: entity.SnowflakeBase{ID: 1},
		UserID:        testutil.User1.ID,
		SourceType:    entity.SourceSubmitFeedback,
		ReferenceID:   testutil.Feedback1.ID,
		Amount:        5,
	})
	require.NoError(t, err)

	// The same (user, source, reference) triple cannot be inserted twice.
	err = repo.Create(ctx, &entity.PointEntry{
		SnowflakeBase: entity.SnowflakeBase{ID: 2},
		UserID:        testutil.User1.ID,
		SourceType:    entity.SourceSubmitFeedback,
		ReferenceID:   testutil.Feedback1.ID,
		Amount:        9,
	})
	require.Error(t, err)

	entry, err := repo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 5, entry.Amount)
}

func Test_pointLedgerRepository_UpdateAmount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewPointLedgerRepository()

	err := repo.UpdateAmount(ctx,
		testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID, 9, "updated")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, repo.Create(ctx, &entity.PointEntry{
		SnowflakeBase: entity.SnowflakeBase{ID: 1},
		UserID:        testutil.User1.ID,
		SourceType:    entity.SourceSubmitFeedback,
		ReferenceID:   testutil.Feedback1.ID,
		Amount:        5,
	}))

	err = repo.UpdateAmount(ctx,
		testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID, 9, "updated")
	require.NoError(t, err)

	entry, err := repo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 9, entry.Amount)
	require.Equal(t, "updated", entry.Comment)
}

func Test_pointLedgerRepository_aggregates(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewPointLedgerRepository()

	entries := []entity.PointEntry{
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 1},
			UserID:        testutil.User1.ID,
			SourceType:    entity.SourceSubmitFeedback,
			ReferenceID:   testutil.Feedback1.ID,
			Amount:        13,
		},
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2},
			UserID:        testutil.User1.ID,
			SourceType:    entity.SourceReferral,
			ReferenceID:   testutil.User2.ID,
			Amount:        10,
		},
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 3},
			UserID:        testutil.User2.ID,
			SourceType:    entity.SourceSubmitFeedback,
			ReferenceID:   testutil.Feedback2.ID,
			Amount:        1,
		},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	total, err := repo.SumAmount(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 23, total)

	count, err := repo.Count(ctx, repository.CountPointEntryFilter{
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceReferral,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	breakdown, err := repo.BreakdownBySource(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	totals := map[entity.PointSourceType]int{}
	for _, row := range breakdown {
		totals[row.SourceType] = row.Total
	}
	require.Equal(t, 13, totals[entity.SourceSubmitFeedback])
	require.Equal(t, 10, totals[entity.SourceReferral])

	list, err := repo.GetListByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
