package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
)

// ReportCacheRepository stores rendered attendance reports in Redis. A nil client disables caching.
type ReportCacheRepository struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
}

// NewReportCacheRepository constructs the repository. Keys are stored under namespace + ":".
func NewReportCacheRepository(client *redis.Client, namespace string, logger *zap.Logger) *ReportCacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCacheRepository{client: client, namespace: namespace, logger: logger}
}

func (r *ReportCacheRepository) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

// Get decodes the cached report into dest or returns ErrCacheMiss.
func (r *ReportCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return nil
}

// Set stores value as JSON with ttl.
func (r *ReportCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix and returns the number removed.
func (r *ReportCacheRepository) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if r.client == nil {
		return 0, nil
	}
	removed := 0
	iter := r.client.Scan(ctx, 0, r.key(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("redis delete %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	if removed > 0 {
		r.logger.Debug("report cache invalidated", zap.String("prefix", prefix), zap.Int("keys", removed))
	}
	return removed, nil
}

// Ping reports whether Redis is reachable. A disabled cache is always healthy.
func (r *ReportCacheRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}
