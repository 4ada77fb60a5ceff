package scoring

import (
	"context"
	"testing"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/api/classifier"
	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestService(caller classifier.Caller) (*Service, repository.PointLedgerRepository) {
	feedbackRepo := repository.NewFeedbackRepository()
	analysisRepo := repository.NewFeedbackAnalysisRepository()
	cacheRepo := repository.NewClassificationCacheRepository()
	pointRepo := repository.NewPointLedgerRepository()
	userRepo := repository.NewUserRepository()

	analyzer := NewAnalyzer(analysisRepo, NewClassifier(cacheRepo, caller, &testutil.MockPublisher{}))
	ledger := NewLedger(pointRepo, analysisRepo, nil)
	referral := NewReferral(pointRepo, userRepo, ledger)

	return NewService(feedbackRepo, analysisRepo, cacheRepo, analyzer, ledger, referral), pointRepo
}

func Test_service_HandleFeedbackSubmitted(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{HasTeaching: true, HasAssessment: true}, nil
		},
	}
	service, pointRepo := newTestService(caller)

	require.NoError(t, service.HandleFeedbackSubmitted(ctx, testutil.Feedback1.ID))

	// 1 base + 2 categories * 4.
	entry, err := pointRepo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 9, entry.Amount)

	// Submitting also fires the referral trigger for the author.
	referralEntry, err := pointRepo.GetByKey(ctx, testutil.Referrer.ID, entity.SourceReferral, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 10, referralEntry.Amount)

	// Retriggering is idempotent.
	require.NoError(t, service.HandleFeedbackSubmitted(ctx, testutil.Feedback1.ID))
	require.Equal(t, 1, caller.Calls)

	entries, err := pointRepo.GetListByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func Test_service_HandleFeedbackSubmitted_referralOnlyOnFirstFeedback(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	feedbackRepo := repository.NewFeedbackRepository()
	second := &entity.Feedback{
		Base:       entity.Base{ID: "feedback3"},
		UserID:     testutil.User1.ID,
		CourseCode: "CS102",
		Rating:     4,
	}
	require.NoError(t, feedbackRepo.Create(ctx, second))

	service, pointRepo := newTestService(&testutil.MockClassifierCaller{})

	// User1 now has two feedbacks, so a later one is not the trigger.
	require.NoError(t, service.HandleFeedbackSubmitted(ctx, second.ID))

	_, err := pointRepo.GetByKey(ctx, testutil.Referrer.ID, entity.SourceReferral, testutil.User1.ID)
	require.Error(t, err)
}

func Test_service_HandleFeedbackSubmitted_notApproved(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	service, pointRepo := newTestService(&testutil.MockClassifierCaller{})

	// Feedback2 has no comment and is not approved.
	require.NoError(t, service.HandleFeedbackSubmitted(ctx, testutil.Feedback2.ID))

	entry, err := pointRepo.GetByKey(ctx, testutil.User2.ID, entity.SourceSubmitFeedback, testutil.Feedback2.ID)
	require.NoError(t, err)
	require.Equal(t, 0, entry.Amount)
}

func Test_service_HandleFeedbackSubmitted_notFound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	service, _ := newTestService(&testutil.MockClassifierCaller{})

	err := service.HandleFeedbackSubmitted(ctx, "missing")
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_service_HandleApprovalChanged(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{
				HasTeaching: true, HasAssessment: true, HasMaterials: true, HasTips: true,
			}, nil
		},
	}
	service, pointRepo := newTestService(caller)

	require.NoError(t, service.HandleFeedbackSubmitted(ctx, testutil.Feedback1.ID))

	require.NoError(t, service.HandleApprovalChanged(ctx, testutil.Feedback1.ID, false, "plagiarized"))

	entry, err := pointRepo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 0, entry.Amount)

	require.NoError(t, service.HandleApprovalChanged(ctx, testutil.Feedback1.ID, true, ""))

	entry, err = pointRepo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 20, entry.Amount)
}

func Test_service_HandleReanalysis(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	service, pointRepo := newTestService(&testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{}, nil
		},
	})

	require.NoError(t, service.HandleFeedbackSubmitted(ctx, testutil.Feedback1.ID))

	entry, err := pointRepo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, entry.Amount)

	err = service.HandleReanalysis(ctx, testutil.Feedback1.ID, entity.Classification{
		HasTeaching: true, HasTips: true,
	})
	require.NoError(t, err)

	entry, err = pointRepo.GetByKey(ctx, testutil.User1.ID, entity.SourceSubmitFeedback, testutil.Feedback1.ID)
	require.NoError(t, err)
	require.Equal(t, 9, entry.Amount)
}

func Test_service_CacheStats(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	caller := &testutil.MockClassifierCaller{
		ClassifyFunc: func(ctx context.Context, comment string) (classifier.Classification, error) {
			return classifier.Classification{HasTeaching: true}, nil
		},
	}
	service, _ := newTestService(caller)

	require.NoError(t, service.HandleFeedbackSubmitted(ctx, testutil.Feedback1.ID))

	stats, err := service.CacheStats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Entries)
}
