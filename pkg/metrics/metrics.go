package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fire-and-forget paths never surface their failures to callers, so these
// counters are the only place those failures are visible in aggregate.
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "classification_cache_hits_total",
		Help:      "Number of classification cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "classification_cache_misses_total",
		Help:      "Number of classification cache misses.",
	})

	ProviderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "classifier_provider_failures_total",
		Help:      "Number of failed AI classifier provider calls.",
	})

	BookkeepingPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "bookkeeping_publish_failures_total",
		Help:      "Number of cache usage events that could not be published.",
	})

	BookkeepingApplyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "bookkeeping_apply_failures_total",
		Help:      "Number of cache usage increments that could not be applied.",
	})

	LeaderboardUpdateFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "leaderboard_update_failures_total",
		Help:      "Number of failed leaderboard score updates.",
	})
)
