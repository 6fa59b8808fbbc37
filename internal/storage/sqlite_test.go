package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/dictflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *EnrichmentStore {
	t.Helper()
	store, err := NewEnrichmentStore(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEnrichmentStoreRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	result := model.EnrichmentResult{
		Group:       model.GroupIdentifier,
		Description: "Unique user ID",
		Confidence:  0.95,
	}
	require.NoError(t, store.Put(ctx, "user_id", "gpt-4-turbo-preview", result))

	got, found, err := store.Get(ctx, "user_id", "gpt-4-turbo-preview")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, result, got)
}

func TestEnrichmentStoreMiss(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, found, err := store.Get(context.Background(), "unknown", "gpt-4-turbo-preview")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEnrichmentStoreKeyedByModel(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	result := model.EnrichmentResult{
		Group:       model.GroupNumeric,
		Description: "Age in years",
		Confidence:  0.8,
	}
	require.NoError(t, store.Put(ctx, "age", "model-a", result))

	_, found, err := store.Get(ctx, "age", "model-b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEnrichmentStoreOverwrite(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	first := model.EnrichmentResult{Group: model.GroupCategorical, Description: "old", Confidence: 0.4}
	second := model.EnrichmentResult{Group: model.GroupNumeric, Description: "new", Confidence: 0.9}

	require.NoError(t, store.Put(ctx, "age", "m", first))
	require.NoError(t, store.Put(ctx, "age", "m", second))

	got, found, err := store.Get(ctx, "age", "m")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)
}

func TestEnrichmentStoreExpiry(t *testing.T) {
	store := newTestStore(t, time.Nanosecond)
	ctx := context.Background()

	result := model.EnrichmentResult{Group: model.GroupNumeric, Description: "Age", Confidence: 0.8}
	require.NoError(t, store.Put(ctx, "age", "m", result))

	time.Sleep(time.Millisecond)

	_, found, err := store.Get(ctx, "age", "m")
	require.NoError(t, err)
	assert.False(t, found)
}
