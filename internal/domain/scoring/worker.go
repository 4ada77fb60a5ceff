package scoring

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/metrics"
	"github.com/coursepulse/backend/pkg/pubsub"
	"github.com/coursepulse/backend/pkg/xcontext"
	"github.com/pkg/math"
	"github.com/puzpuzpuz/xsync"
)

type usageCounter struct {
	hits           int64
	lastAccessUnix int64
}

// BookkeepingWorker consumes cache usage events, aggregates them in memory
// and periodically folds them into hit_count/last_accessed_at. It also runs
// the LRU eviction sweep over the classification cache.
type BookkeepingWorker struct {
	cacheRepo repository.ClassificationCacheRepository
	pending   *xsync.MapOf[string, *usageCounter]
}

func NewBookkeepingWorker(cacheRepo repository.ClassificationCacheRepository) *BookkeepingWorker {
	return &BookkeepingWorker{
		cacheRepo: cacheRepo,
		pending:   xsync.NewMapOf[*usageCounter](),
	}
}

// Handle is the subscriber callback. Malformed events are counted and
// dropped, losing a usage record is acceptable.
func (w *BookkeepingWorker) Handle(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	event, err := ParseCacheUsageEvent(pack)
	if err != nil {
		metrics.BookkeepingApplyFailures.Inc()
		xcontext.Logger(ctx).Warnf("Cannot parse cache usage event: %v", err)
		return
	}

	counter, _ := w.pending.LoadOrStore(event.CommentHash, &usageCounter{})
	atomic.AddInt64(&counter.hits, 1)

	last := atomic.LoadInt64(&counter.lastAccessUnix)
	atomic.StoreInt64(&counter.lastAccessUnix, math.MaxInt64(last, event.AccessedAtUnix))
}

// Flush applies the aggregated increments. Counters race harmlessly with
// Handle, an increment lost to the race is picked up by the next flush.
func (w *BookkeepingWorker) Flush(ctx context.Context) {
	w.pending.Range(func(commentHash string, counter *usageCounter) bool {
		w.pending.Delete(commentHash)

		hits := atomic.LoadInt64(&counter.hits)
		accessedAt := time.Unix(atomic.LoadInt64(&counter.lastAccessUnix), 0)
		if err := w.cacheRepo.RecordUsage(ctx, commentHash, hits, accessedAt); err != nil {
			metrics.BookkeepingApplyFailures.Inc()
			xcontext.Logger(ctx).Warnf("Cannot apply cache usage of %s: %v", commentHash, err)
		}

		return true
	})
}

// EvictStale removes cache entries not accessed since the configured
// retention window. Eviction is an explicit policy, not a correctness
// requirement, a re-classified comment simply repopulates its entry.
func (w *BookkeepingWorker) EvictStale(ctx context.Context) {
	evictAfter := xcontext.Configs(ctx).Bookkeeping.EvictAfter
	if evictAfter <= 0 {
		return
	}

	cutoff := time.Now().Add(-evictAfter)
	evicted, err := w.cacheRepo.DeleteLastAccessedBefore(ctx, cutoff)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot evict stale cache entries: %v", err)
		return
	}

	if evicted > 0 {
		xcontext.Logger(ctx).Infof("Evicted %d stale classification cache entries", evicted)
	}
}

// Run flushes and evicts on their configured intervals until ctx is done.
func (w *BookkeepingWorker) Run(ctx context.Context) {
	cfg := xcontext.Configs(ctx).Bookkeeping

	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 10 * time.Second
	}

	evictInterval := cfg.EvictInterval
	if evictInterval <= 0 {
		evictInterval = time.Hour
	}

	flushTicker := time.NewTicker(flushInterval)
	defer flushTicker.Stop()

	evictTicker := time.NewTicker(evictInterval)
	defer evictTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Flush(ctx)
			return
		case <-flushTicker.C:
			w.Flush(ctx)
		case <-evictTicker.C:
			w.EvictStale(ctx)
		}
	}
}
