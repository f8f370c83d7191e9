package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	// CheckRateLimit records an attempt for subject and returns whether it is allowed,
	// the attempts left in the window and the seconds to wait when blocked.
	CheckRateLimit(ctx context.Context, scope, subject string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.RateConfig
	now    func() time.Time
}

func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	slog.Info("Connecting to Redis", slog.String("host", cfg.RedisConnect.Host), slog.String("port", cfg.RedisConnect.Port))

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis")

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg, now: time.Now}
}

// Sliding window over a sorted set scored by attempt time in milliseconds.
func (r *redisRepository) CheckRateLimit(ctx context.Context, scope, subject string) (bool, int, int, error) {
	logger := middleware.LoggerFromContext(ctx)

	key := fmt.Sprintf("rate:%s:%s", scope, subject)
	now := r.now()
	windowStart := now.Add(-r.cfg.WindowSize).UnixMilli()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: now.UnixMilli()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	if attempts <= r.cfg.MaxAttempts {
		return true, int(r.cfg.MaxAttempts - attempts), 0, nil
	}

	scores, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil || len(scores) == 0 {
		logger.Error("Failed to get oldest attempt for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, int(r.cfg.WindowSize.Seconds()), nil
	}

	oldest := time.UnixMilli(int64(scores[0].Score))
	retryAfter := int(max(oldest.Add(r.cfg.WindowSize).Sub(now).Seconds(), 1))

	logger.Warn("Rate limit exceeded", slog.String("scope", scope), slog.Int64("attempts", attempts))

	return false, 0, retryAfter, nil
}
