package repository_test

import (
	"testing"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_classificationCacheRepository_Create_keepsExistingRow(t *testing.T) {
	ctx := testutil.MockContext()

	repo := repository.NewClassificationCacheRepository()

	require.NoError(t, repo.Create(ctx, &entity.CommentClassification{
		CommentHash:    "hash1",
		Classification: entity.Classification{HasTeaching: true},
		HitCount:       0,
		LastAccessedAt: time.Now(),
	}))

	// A concurrent insert of the same hash loses silently.
	require.NoError(t, repo.Create(ctx, &entity.CommentClassification{
		CommentHash:    "hash1",
		Classification: entity.Classification{HasTips: true},
		HitCount:       0,
		LastAccessedAt: time.Now(),
	}))

	record, err := repo.Get(ctx, "hash1")
	require.NoError(t, err)
	require.True(t, record.HasTeaching)
	require.False(t, record.HasTips)
}

func Test_classificationCacheRepository_RecordUsage(t *testing.T) {
	ctx := testutil.MockContext()

	repo := repository.NewClassificationCacheRepository()

	accessedAt := time.Now().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &entity.CommentClassification{
		CommentHash:    "hash1",
		LastAccessedAt: accessedAt.Add(-time.Hour),
	}))

	require.NoError(t, repo.RecordUsage(ctx, "hash1", 2, accessedAt))
	require.NoError(t, repo.RecordUsage(ctx, "hash1", 1, accessedAt))

	record, err := repo.Get(ctx, "hash1")
	require.NoError(t, err)
	require.EqualValues(t, 3, record.HitCount)
	require.Equal(t, accessedAt.Unix(), record.LastAccessedAt.Unix())

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Entries)
	require.EqualValues(t, 3, stats.TotalHits)
}
