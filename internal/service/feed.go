// Package service holds the feed service: raw inventory acquisition, lazy
// paginated enrichment and the metadata facets.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/cache"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/enrich"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// ErrSourceUnavailable signals that the point-of-sale source could not be
// reached and no cached snapshot exists.
var ErrSourceUnavailable = errors.New("inventory source unavailable")

// ErrItemNotFound signals a missing or out-of-stock item.
var ErrItemNotFound = errors.New("item not found")

// SourceClient fetches the full raw inventory. Implemented by client.Source.
type SourceClient interface {
	FetchAll(ctx context.Context) ([]model.RawItem, error)
}

// Feed serves the enriched, paginated product feed over the raw snapshot.
type Feed struct {
	log      *logger.Logger
	source   SourceClient
	snapshot *cache.SnapshotStore
	orch     *enrich.Orchestrator

	defaultPageSize int
	maxPageSize     int
	prefetch        bool

	refreshMu sync.Mutex
}

// FeedConfig holds the serving-layer settings.
type FeedConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	Prefetch        bool
}

// NewFeed creates the feed service.
func NewFeed(
	log *logger.Logger,
	source SourceClient,
	snapshot *cache.SnapshotStore,
	orch *enrich.Orchestrator,
	cfg FeedConfig,
) *Feed {
	defaultPageSize := cfg.DefaultPageSize
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}

	maxPageSize := cfg.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = 100
	}

	return &Feed{
		log:             log.With("component", "feed"),
		source:          source,
		snapshot:        snapshot,
		orch:            orch,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		prefetch:        cfg.Prefetch,
	}
}

// DefaultPageSize returns the page size used when the request omits one.
func (f *Feed) DefaultPageSize() int { return f.defaultPageSize }

// MaxPageSize returns the largest page size a request may ask for.
func (f *Feed) MaxPageSize() int { return f.maxPageSize }

// RawInventory returns the filtered raw snapshot, refreshing from the source
// on a cache miss or TTL expiry. All callers inside the TTL window observe
// the same snapshot. The only retained items have a positive price and stock
// either unreported or positive.
func (f *Feed) RawInventory(ctx context.Context) ([]model.RawItem, error) {
	if items, err := f.snapshot.Get(ctx); err == nil {
		return items, nil
	}

	// One refresh at a time; late arrivals reuse the winner's snapshot.
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	if items, err := f.snapshot.Get(ctx); err == nil {
		return items, nil
	}

	fetched, err := f.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	items := make([]model.RawItem, 0, len(fetched))
	for _, item := range fetched {
		if item.Sellable() {
			items = append(items, item)
		}
	}

	if err := f.snapshot.Set(ctx, items); err != nil {
		f.log.Warn("snapshot cache write failed", "error", err)
	}

	f.log.Info("raw inventory refreshed", "fetched", len(fetched), "retained", len(items))
	return items, nil
}

// Page returns one enriched page. Only the requested slice is enriched, so
// the work scales with the page, not the inventory. Totals always reflect the
// raw-valid count; the post-enrichment stock filter may drop items from the
// page without changing them. When more pages remain, the next page's
// enrichment is warmed in the background.
func (f *Feed) Page(ctx context.Context, page, pageSize int) (*model.PageResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = f.defaultPageSize
	}
	if pageSize > f.maxPageSize {
		pageSize = f.maxPageSize
	}

	raw, err := f.RawInventory(ctx)
	if err != nil {
		return nil, err
	}

	total := len(raw)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	enriched := f.orch.EnrichBatch(ctx, raw[start:end])

	// Enrichment may have overwritten a stock count; filter again so sold-out
	// items never reach the page.
	items := make([]model.EnrichedItem, 0, len(enriched))
	for _, item := range enriched {
		if item.InStock() {
			items = append(items, item)
		}
	}

	hasMore := page < totalPages
	if hasMore && f.prefetch {
		f.prefetchPage(raw, end, pageSize)
	}

	return &model.PageResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    hasMore,
	}, nil
}

// prefetchPage warms the enrichment cache for the next page without blocking
// the current response.
func (f *Feed) prefetchPage(raw []model.RawItem, start, pageSize int) {
	end := start + pageSize
	if end > len(raw) {
		end = len(raw)
	}
	if start >= end {
		return
	}

	slice := raw[start:end]
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		f.orch.EnrichBatch(ctx, slice)
		f.log.Debug("prefetched next page", "items", len(slice))
	}()
}

// Meta derives facet metadata from the deterministic parser only, so it
// stays cheap and may disagree with the enriched brand/size values shown
// in listings.
func (f *Feed) Meta(ctx context.Context) (*model.Metadata, error) {
	raw, err := f.RawInventory(ctx)
	if err != nil {
		return nil, err
	}

	brandSet := make(map[string]struct{})
	sizeSet := make(map[string]struct{})
	for _, item := range raw {
		det := enrich.Deterministic(item.Name)
		if det.Brand != "" {
			brandSet[det.Brand] = struct{}{}
		}
		if det.Size != "" {
			sizeSet[det.Size] = struct{}{}
		}
	}

	meta := &model.Metadata{
		Total:  len(raw),
		Brands: sortedKeys(brandSet),
		Sizes:  sortedKeys(sizeSet),
	}
	return meta, nil
}

// Item returns one enriched item by id. Missing ids and items that turn out
// to be out of stock after enrichment both report ErrItemNotFound.
func (f *Feed) Item(ctx context.Context, id string) (*model.EnrichedItem, error) {
	raw, err := f.RawInventory(ctx)
	if err != nil {
		return nil, err
	}

	for _, candidate := range raw {
		if candidate.ID != id {
			continue
		}
		item := f.orch.EnrichOne(ctx, candidate)
		if !item.InStock() {
			return nil, ErrItemNotFound
		}
		return &item, nil
	}
	return nil, ErrItemNotFound
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
