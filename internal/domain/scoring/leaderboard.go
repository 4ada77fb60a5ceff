package scoring

import (
	"context"
	"errors"

	"github.com/coursepulse/backend/pkg/metrics"
	"github.com/coursepulse/backend/pkg/xcontext"
	"github.com/coursepulse/backend/pkg/xredis"
	"github.com/pkg/math"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "points_leaderboard"

const maxLeaderboardSize = 100

// Leaderboard mirrors ledger totals into a redis sorted set for the public
// site. It is best-effort, the ledger stays authoritative and a failed
// update is only counted and logged.
type Leaderboard struct {
	redisClient xredis.Client
}

func NewLeaderboard(redisClient xredis.Client) *Leaderboard {
	return &Leaderboard{redisClient: redisClient}
}

func (l *Leaderboard) AddPoints(ctx context.Context, userID string, delta int) {
	if l == nil || l.redisClient == nil || delta == 0 {
		return
	}

	if err := l.redisClient.ZIncrBy(ctx, leaderboardKey, int64(delta), userID); err != nil {
		metrics.LeaderboardUpdateFailures.Inc()
		xcontext.Logger(ctx).Warnf("Cannot update leaderboard for user %s: %v", userID, err)
	}
}

type Rank struct {
	UserID string
	Points int
}

// Points reads the mirrored score of one user. A user without any scored
// activity reads as zero.
func (l *Leaderboard) Points(ctx context.Context, userID string) (int, error) {
	if l == nil || l.redisClient == nil {
		return 0, nil
	}

	score, err := l.redisClient.ZScore(ctx, leaderboardKey, userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, err
	}

	return int(score), nil
}

// Reset drops the mirror so the next award deltas rebuild it from zero.
// Used when the set is known to have drifted from the ledger.
func (l *Leaderboard) Reset(ctx context.Context) error {
	if l == nil || l.redisClient == nil {
		return nil
	}

	return l.redisClient.Del(ctx, leaderboardKey)
}

func (l *Leaderboard) TopEarners(ctx context.Context, limit int) ([]Rank, error) {
	if l == nil || l.redisClient == nil {
		return nil, nil
	}

	entries, err := l.redisClient.ZRevRangeWithScores(
		ctx, leaderboardKey, 0, math.MinInt(limit, maxLeaderboardSize))
	if err != nil {
		return nil, err
	}

	result := make([]Rank, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		result = append(result, Rank{UserID: member, Points: int(z.Score)})
	}

	return result, nil
}
