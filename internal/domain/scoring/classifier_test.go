package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/api/classifier"
	"github.com/coursepulse/backend/pkg/testutil"
	"github.com/coursepulse/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_classifier_cacheMissThenHit(t *testing.T) {
	ctx := testutil.MockContext()

	cacheRepo := repository.NewClassificationCacheRepository()
	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{HasTeaching: true, HasTips: true}, nil
		},
	}
	publisher := &testutil.MockPublisher{}
	domain := NewClassifier(cacheRepo, caller, publisher)

	result, err := domain.Classify(ctx, "Great Course")
	require.NoError(t, err)
	require.Equal(t, entity.Classification{HasTeaching: true, HasTips: true}, result)
	require.Equal(t, 1, caller.Calls)

	// Differently-cased and spaced text normalizes to the same hash and is
	// served from cache without a second provider call.
	result, err = domain.Classify(ctx, "  great   course  ")
	require.NoError(t, err)
	require.Equal(t, entity.Classification{HasTeaching: true, HasTips: true}, result)
	require.Equal(t, 1, caller.Calls)

	cached, err := cacheRepo.Get(ctx, HashComment("great course"))
	require.NoError(t, err)
	require.Equal(t, entity.Classification{HasTeaching: true, HasTips: true}, cached.Classification)

	// The hit dispatched exactly one usage event.
	require.Len(t, publisher.Published, 1)
	event, err := ParseCacheUsageEvent(publisher.Published[0].Pack)
	require.NoError(t, err)
	require.Equal(t, HashComment("great course"), event.CommentHash)
}

func Test_classifier_usageFallbackOnPublishFailure(t *testing.T) {
	ctx := testutil.MockContext()

	cacheRepo := repository.NewClassificationCacheRepository()
	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{}, nil
		},
	}
	domain := NewClassifier(cacheRepo, caller, &testutil.FailingPublisher{})

	_, err := domain.Classify(ctx, "an average course")
	require.NoError(t, err)

	_, err = domain.Classify(ctx, "an average course")
	require.NoError(t, err)

	// Publishing failed, so the usage was recorded directly.
	cached, err := cacheRepo.Get(ctx, HashComment("an average course"))
	require.NoError(t, err)
	require.EqualValues(t, 1, cached.HitCount)
}

func Test_classifier_providerFailure(t *testing.T) {
	ctx := testutil.MockContext()

	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{}, errors.New("connection refused")
		},
	}
	domain := NewClassifier(repository.NewClassificationCacheRepository(), caller, nil)

	_, err := domain.Classify(ctx, "some comment")
	require.ErrorIs(t, err, ErrProvider)
}

func Test_classifier_cacheOutageFallsThrough(t *testing.T) {
	ctx := testutil.MockContext()

	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{HasMaterials: true}, nil
		},
	}
	domain := NewClassifier(repository.NewClassificationCacheRepository(), caller, nil)

	// The cache is an optimization: with its table gone, classification
	// still succeeds through the provider.
	require.NoError(t, xcontext.DB(ctx).Migrator().DropTable(&entity.CommentClassification{}))

	result, err := domain.Classify(ctx, "good materials")
	require.NoError(t, err)
	require.Equal(t, entity.Classification{HasMaterials: true}, result)
	require.Equal(t, 1, caller.Calls)
}
