package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	matchKeyPrefix = "match:"
	recentKey      = "matches:recent"
	leaderboardKey = "leaderboard:wpm"

	DefaultRecentCap = 100
	DefaultMatchTTL  = 7 * 24 * time.Hour
)

type RedisConfig struct {
	RedisClient *redis.Client
	RecentCap   int
	TTL         time.Duration
}

// Redis keeps matches as JSON blobs with a capped recency list and a
// sorted set of individual results scored by WPM.
type Redis struct {
	client    *redis.Client
	recentCap int
	ttl       time.Duration
}

func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r := &Redis{client: cfg.RedisClient, recentCap: cfg.RecentCap, ttl: cfg.TTL}
	if r.recentCap <= 0 {
		r.recentCap = DefaultRecentCap
	}
	if r.ttl <= 0 {
		r.ttl = DefaultMatchTTL
	}
	return r, nil
}

func matchKey(m Match) string {
	return fmt.Sprintf("%s%s:%d", matchKeyPrefix, m.RoomCode, m.EndedAt.UnixMilli())
}

func (r *Redis) Save(ctx context.Context, m Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	key := matchKey(m)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, r.ttl)
	pipe.LPush(ctx, recentKey, key)
	pipe.LTrim(ctx, recentKey, 0, int64(r.recentCap-1))
	for _, res := range m.Results {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  res.WPM,
			Member: fmt.Sprintf("%s:%s", m.RoomCode, res.ParticipantID),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

// Recent returns up to limit matches, newest first. Expired entries are skipped.
func (r *Redis) Recent(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	keys, err := r.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}
	if len(keys) == 0 {
		return []Match{}, nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	matches := make([]Match, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var m Match
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

type LeaderboardEntry struct {
	Member string  `json:"member"`
	WPM    float64 `json:"wpm"`
}

func (r *Redis) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	out := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, LeaderboardEntry{Member: member, WPM: z.Score})
	}
	return out, nil
}

func (r *Redis) Close() error { return r.client.Close() }
