package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
)

const (
	snapshotKey     = "inventory:snapshot"
	enrichKeyPrefix = "enrich:"
)

// SnapshotStore holds the filtered raw inventory snapshot under a single key
// with a TTL. All readers within the TTL window observe the same snapshot.
type SnapshotStore struct {
	cache Cache
	ttl   time.Duration
}

// NewSnapshotStore creates a snapshot store over the given cache backend.
func NewSnapshotStore(cache Cache, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{cache: cache, ttl: ttl}
}

// Get returns the cached snapshot, or ErrCacheMiss if absent or expired.
func (s *SnapshotStore) Get(ctx context.Context) ([]model.RawItem, error) {
	data, err := s.cache.Get(ctx, snapshotKey)
	if err != nil {
		return nil, err
	}

	var items []model.RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Set replaces the snapshot with a fresh timestamp.
func (s *SnapshotStore) Set(ctx context.Context, items []model.RawItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, snapshotKey, data, s.ttl)
}

// Clear drops the snapshot so the next read refetches from the source.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, snapshotKey)
}

// EnrichmentStore memoizes enriched items per inventory item id. Successful
// enrichments and fallback items carry distinct TTLs so a transient failure
// does not stick for the full success lifetime.
type EnrichmentStore struct {
	cache       Cache
	ttl         time.Duration
	fallbackTTL time.Duration
}

// NewEnrichmentStore creates an enrichment store over the given cache backend.
func NewEnrichmentStore(cache Cache, ttl, fallbackTTL time.Duration) *EnrichmentStore {
	return &EnrichmentStore{cache: cache, ttl: ttl, fallbackTTL: fallbackTTL}
}

// Get returns the cached enrichment for the id, or nil if absent.
func (s *EnrichmentStore) Get(ctx context.Context, id string) (*model.EnrichedItem, error) {
	data, err := s.cache.Get(ctx, enrichKeyPrefix+id)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var item model.EnrichedItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Set stores an enriched item. Fallback items (not matched, no image) use the
// shorter fallback TTL.
func (s *EnrichmentStore) Set(ctx context.Context, item model.EnrichedItem, fallback bool) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	ttl := s.ttl
	if fallback {
		ttl = s.fallbackTTL
	}
	return s.cache.Set(ctx, enrichKeyPrefix+item.ID, data, ttl)
}
