package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

func newEntry(key string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		Key: key,
		Explanation: core.Explanation{
			Score:       88,
			IsPhishing:  true,
			Explanation: "Look-alike sender domain",
			RiskFactors: []string{"Typosquatting"},
			Structured:  true,
			ModelUsed:   "gemini:gemini-2.5-flash",
		},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// exerciseRepository runs the behavior every cache backend must share
func exerciseRepository(t *testing.T, repo core.CacheRepository) {
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set(ctx, newEntry("live", time.Hour)))
	got, err := repo.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "live", got.Key)
	assert.Equal(t, 88, got.Explanation.Score)
	assert.Equal(t, []string{"Typosquatting"}, got.Explanation.RiskFactors)
	assert.Equal(t, "gemini:gemini-2.5-flash", got.Explanation.ModelUsed)

	// Overwrite keeps a single entry per key
	updated := newEntry("live", time.Hour)
	updated.Explanation.Score = 12
	require.NoError(t, repo.Set(ctx, updated))
	got, err = repo.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Explanation.Score)

	require.NoError(t, repo.Set(ctx, newEntry("stale", -time.Hour)))
	_, err = repo.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, repo.Cleanup(ctx))

	require.NoError(t, repo.Delete(ctx, "live"))
	_, err = repo.Get(ctx, "live")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "never-existed"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()

	exerciseRepository(t, c)
}

func TestMemoryCache_CleanupRemovesExpired(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newEntry("a", time.Hour)))
	require.NoError(t, c.Set(ctx, newEntry("b", -time.Minute)))
	require.Equal(t, 2, c.Len())

	require.NoError(t, c.Cleanup(ctx))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_BackgroundCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 10*time.Millisecond)
	defer c.Stop()

	require.NoError(t, c.Set(context.Background(), newEntry("old", -time.Minute)))
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)

	// Stopping twice is harmless
	c.Stop()
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()
	ctx := context.Background()

	entry := newEntry("k", time.Hour)
	require.NoError(t, c.Set(ctx, entry))
	entry.Explanation.Score = 1

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 88, got.Explanation.Score)
}

func TestSQLiteCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "explanations.db")
	c, err := NewSQLiteCache(path, zap.NewNop(), 0)
	require.NoError(t, err)
	defer c.Stop()

	exerciseRepository(t, c)
	assert.FileExists(t, path)
}

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explanations.db")
	ctx := context.Background()

	first, err := NewSQLiteCache(path, zap.NewNop(), 0)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, newEntry("kept", time.Hour)))
	first.Stop()

	second, err := NewSQLiteCache(path, zap.NewNop(), 0)
	require.NoError(t, err)
	defer second.Stop()

	got, err := second.Get(ctx, "kept")
	require.NoError(t, err)
	assert.True(t, got.Explanation.IsPhishing)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("PHISH_GUARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PHISH_GUARD_TEST_REDIS_ADDR not set")
	}

	c, err := NewRedisCache(context.Background(), addr, "", 0, zap.NewNop())
	require.NoError(t, err)
	defer c.Stop()

	exerciseRepository(t, c)
}
