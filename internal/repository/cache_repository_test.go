package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
)

func TestReportCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewReportCacheRepository(nil, "attendance", nil)
	ctx := context.Background()

	var out map[string]int
	err := repo.Get(ctx, "yearly:batch1:2024", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "yearly:batch1:2024", map[string]int{"a": 1}, time.Minute))
	removed, err := repo.DeletePrefix(ctx, "yearly:")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.NoError(t, repo.Ping(ctx))
}

func TestReportCacheRepositoryKeyNamespace(t *testing.T) {
	assert.Equal(t, "attendance:yearly:batch1:2024", NewReportCacheRepository(nil, "attendance", nil).key("yearly:batch1:2024"))
	assert.Equal(t, "yearly:batch1:2024", NewReportCacheRepository(nil, "", nil).key("yearly:batch1:2024"))
}
