package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReportCache struct{}

func (failingReportCache) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}

func (failingReportCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func (failingReportCache) DeletePrefix(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryReportCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "yearly:batch1:2024", &out))

	svc.Set(ctx, "yearly:batch1:2024", map[string]int{"rows": 3})
	require.True(t, svc.Get(ctx, "yearly:batch1:2024", &out))
	assert.Equal(t, 3, out["rows"])

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
}

func TestCacheServiceInvalidatePrefix(t *testing.T) {
	repo := newMemoryReportCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	svc.Set(ctx, "yearly:batch1:2024", 1)
	svc.Set(ctx, "yearly:batch2:2024", 2)
	svc.Set(ctx, "other:key", 3)

	svc.Invalidate(ctx, "yearly:")
	assert.False(t, repo.has("yearly:batch1:2024"))
	assert.False(t, repo.has("yearly:batch2:2024"))
	assert.True(t, repo.has("other:key"))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryReportCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	svc.Set(ctx, "k", 1)
	assert.False(t, repo.has("k"))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, NewCacheService(nil, nil, 0, nil, true).Enabled())
}

func TestCacheServiceBackendErrorsAreMisses(t *testing.T) {
	svc := NewCacheService(failingReportCache{}, nil, time.Minute, nil, true)
	ctx := context.Background()

	var out int
	assert.False(t, svc.Get(ctx, "k", &out))
	assert.NotPanics(t, func() {
		svc.Set(ctx, "k", 1)
		svc.Invalidate(ctx, "k")
	})
}
