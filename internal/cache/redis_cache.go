package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/malaura/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// ErrConflict is returned when Update keeps losing the race on a key.
var ErrConflict = errors.New("cache: too many concurrent writers")

type redisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{client: client, defaultTTL: cfg.DefaultTTL}
}

func (r *redisCache) expiry(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}

	return r.defaultTTL
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := encode(key, value)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, raw, r.expiry(ttl)).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}

func (r *redisCache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	raw, err := encode(key, value)
	if err != nil {
		return false, err
	}

	stored, err := r.client.SetNX(ctx, key, raw, r.expiry(ttl)).Result()
	if err != nil {
		return false, fmt.Errorf("cache setnx %s: %w", key, err)
	}

	return stored, nil
}

func (r *redisCache) Update(ctx context.Context, key string, value any, ttl time.Duration, fn func(found bool) (any, error)) error {
	target := reflect.ValueOf(value)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("cache update %s: value must be a non-nil pointer", key)
	}

	txf := func(tx *redis.Tx) error {
		target.Elem().SetZero()

		found := true
		raw, err := tx.Get(ctx, key).Bytes()

		switch {
		case errors.Is(err, redis.Nil):
			found = false
		case err != nil:
			return fmt.Errorf("cache get %s: %w", key, err)
		default:
			if err := json.Unmarshal(raw, value); err != nil {
				return fmt.Errorf("cache decode %s: %w", key, err)
			}
		}

		next, err := fn(found)
		if err != nil {
			return err
		}

		data, err := encode(key, next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.expiry(ttl))
			return nil
		})

		return err
	}

	for range maxUpdateAttempts {
		err := r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	return fmt.Errorf("cache update %s: %w", key, ErrConflict)
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}

	return nil
}

func (r *redisCache) Close() error {
	return r.client.Close()
}

func encode(key string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cache encode %s: %w", key, err)
	}

	return raw, nil
}
