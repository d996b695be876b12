package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	c := newTestMemoryCache(t)
	s := NewSnapshotStore(c, time.Minute)
	ctx := context.Background()

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	stock := 2
	items := []model.RawItem{
		{ID: "a", Name: "Nike Dunk Low", Price: 9000, StockCount: &stock},
		{ID: "b", Name: "Adidas Samba", Price: 8000},
	}
	require.NoError(t, s.Set(ctx, items))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestSnapshotStoreExpiry(t *testing.T) {
	c := newTestMemoryCache(t)
	s := NewSnapshotStore(c, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, []model.RawItem{{ID: "a", Name: "x", Price: 1}}))
	time.Sleep(30 * time.Millisecond)

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSnapshotStoreClear(t *testing.T) {
	c := newTestMemoryCache(t)
	s := NewSnapshotStore(c, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, []model.RawItem{{ID: "a", Name: "x", Price: 1}}))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestEnrichmentStoreMissReturnsNil(t *testing.T) {
	c := newTestMemoryCache(t)
	s := NewEnrichmentStore(c, time.Minute, time.Minute)

	got, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEnrichmentStoreRoundTrip(t *testing.T) {
	c := newTestMemoryCache(t)
	s := NewEnrichmentStore(c, time.Minute, time.Minute)
	ctx := context.Background()

	item := model.EnrichedItem{
		ID:           "a",
		Name:         "Nike Dunk Low Panda",
		OriginalName: "nike dunk low panda sz 9",
		Brand:        "Nike",
		Price:        9000,
		Matched:      true,
	}
	require.NoError(t, s.Set(ctx, item, false))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, item, *got)
}

func TestEnrichmentStoreFallbackTTLIsShorter(t *testing.T) {
	c := newTestMemoryCache(t)
	s := NewEnrichmentStore(c, time.Minute, 10*time.Millisecond)
	ctx := context.Background()

	ok := model.EnrichedItem{ID: "ok", Matched: true}
	degraded := model.EnrichedItem{ID: "degraded"}
	require.NoError(t, s.Set(ctx, ok, false))
	require.NoError(t, s.Set(ctx, degraded, true))

	time.Sleep(30 * time.Millisecond)

	got, err := s.Get(ctx, "ok")
	require.NoError(t, err)
	assert.NotNil(t, got, "successful enrichment must outlive fallback TTL")

	got, err = s.Get(ctx, "degraded")
	require.NoError(t, err)
	assert.Nil(t, got, "fallback must expire on its own TTL")
}
