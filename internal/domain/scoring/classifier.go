package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/api/classifier"
	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/metrics"
	"github.com/coursepulse/backend/pkg/pubsub"
	"github.com/coursepulse/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrProvider is returned when the AI classifier cannot produce a result.
// Callers that must not block on classification substitute an all-false
// classification instead of propagating it.
var ErrProvider = errorx.New(errorx.ProviderUnavailable, "Classifier provider is unavailable")

type Classifier struct {
	cacheRepo repository.ClassificationCacheRepository
	caller    classifier.Caller
	publisher pubsub.Publisher
}

func NewClassifier(
	cacheRepo repository.ClassificationCacheRepository,
	caller classifier.Caller,
	publisher pubsub.Publisher,
) *Classifier {
	return &Classifier{
		cacheRepo: cacheRepo,
		caller:    caller,
		publisher: publisher,
	}
}

// Classify returns the topic classification of a comment, consulting the
// content-addressed cache before calling the provider. Cache failures are
// treated as misses, the cache is an optimization and never a dependency.
func (c *Classifier) Classify(ctx context.Context, comment string) (entity.Classification, error) {
	commentHash := HashComment(comment)

	cached, err := c.cacheRepo.Get(ctx, commentHash)
	if err == nil {
		metrics.CacheHits.Inc()
		c.recordUsage(ctx, commentHash)
		return cached.Classification, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot lookup classification cache: %v", err)
	}

	metrics.CacheMisses.Inc()

	result, err := c.caller.Classify(ctx, comment)
	if err != nil {
		metrics.ProviderFailures.Inc()
		xcontext.Logger(ctx).Warnf("Classifier provider call failed: %v", err)
		return entity.Classification{}, ErrProvider
	}

	classification := entity.Classification{
		HasTeaching:   result.HasTeaching,
		HasAssessment: result.HasAssessment,
		HasMaterials:  result.HasMaterials,
		HasTips:       result.HasTips,
	}

	now := time.Now()
	err = c.cacheRepo.Create(ctx, &entity.CommentClassification{
		CommentHash:    commentHash,
		Classification: classification,
		LastAccessedAt: now,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot store classification in cache: %v", err)
	}

	return classification, nil
}

// recordUsage hands the hit bookkeeping off to the worker queue. Failures
// fall back to a direct best-effort write and are never surfaced.
func (c *Classifier) recordUsage(ctx context.Context, commentHash string) {
	now := time.Now()

	if c.publisher != nil {
		event := CacheUsageEvent{CommentHash: commentHash, AccessedAtUnix: now.Unix()}
		pack, err := event.Pack()
		if err == nil {
			topic := xcontext.Configs(ctx).Bookkeeping.Topic
			if err := c.publisher.Publish(ctx, topic, pack); err == nil {
				return
			}

			metrics.BookkeepingPublishFailures.Inc()
			xcontext.Logger(ctx).Warnf("Cannot publish cache usage event: %v", err)
		}
	}

	if err := c.cacheRepo.RecordUsage(ctx, commentHash, 1, now); err != nil {
		metrics.BookkeepingApplyFailures.Inc()
		xcontext.Logger(ctx).Warnf("Cannot record cache usage: %v", err)
	}
}
