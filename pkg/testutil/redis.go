package testutil

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is a minimal in-memory stand-in for xredis.Client covering
// the sorted-set operations the leaderboard uses.
type MockRedisClient struct {
	Scores map[string]map[string]float64
}

func (m *MockRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	if m.Scores == nil {
		m.Scores = map[string]map[string]float64{}
	}

	if m.Scores[key] == nil {
		m.Scores[key] = map[string]float64{}
	}

	m.Scores[key][member] += float64(incr)
	return nil
}

func (m *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	var result []redis.Z
	for member, score := range m.Scores[key] {
		result = append(result, redis.Z{Member: member, Score: score})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Score > result[j].Score })

	if offset >= len(result) {
		return nil, nil
	}

	end := offset + limit
	if end > len(result) {
		end = len(result)
	}

	return result[offset:end], nil
}

func (m *MockRedisClient) ZScore(ctx context.Context, key, member string) (float64, error) {
	scores, ok := m.Scores[key]
	if !ok {
		return 0, redis.Nil
	}

	score, ok := scores[member]
	if !ok {
		return 0, redis.Nil
	}

	return score, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key string) error {
	delete(m.Scores, key)
	return nil
}
