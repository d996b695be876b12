package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/cache"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// Orchestrator drives concurrency-bounded, rate-limited enrichment over raw
// inventory items. Individual item failures never abort a batch; the failed
// item degrades to a fallback built from the deterministic parse.
type Orchestrator struct {
	log        *logger.Logger
	normalizer *Normalizer
	matcher    *Matcher
	images     ImageSearcher
	store      *cache.EnrichmentStore

	batchSize int
	limiter   *rate.Limiter
}

// OrchestratorConfig holds the orchestrator settings.
type OrchestratorConfig struct {
	BatchSize     int
	BatchInterval time.Duration
}

// NewOrchestrator creates a batch enrichment orchestrator. images may be nil
// when no image-search provider is configured.
func NewOrchestrator(
	log *logger.Logger,
	normalizer *Normalizer,
	matcher *Matcher,
	images ImageSearcher,
	store *cache.EnrichmentStore,
	cfg OrchestratorConfig,
) *Orchestrator {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	interval := cfg.BatchInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	return &Orchestrator{
		log:        log.With("component", "orchestrator"),
		normalizer: normalizer,
		matcher:    matcher,
		images:     images,
		store:      store,
		batchSize:  batchSize,
		// Token bucket pacing between batches keeps us inside the external
		// providers' rate limits without a hard-coded sleep.
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// EnrichBatch enriches all items, preserving input order. Items within one
// batch run concurrently; the limiter paces consecutive batches. The result
// always has exactly len(items) entries.
func (o *Orchestrator) EnrichBatch(ctx context.Context, items []model.RawItem) []model.EnrichedItem {
	results := make([]model.EnrichedItem, len(items))

	for start := 0; start < len(items); start += o.batchSize {
		if start > 0 {
			if err := o.limiter.Wait(ctx); err != nil {
				// Context gone: degrade the rest to fallbacks and stop
				// issuing network calls.
				for i := start; i < len(items); i++ {
					results[i] = FallbackItem(items[i])
				}
				return results
			}
		}

		end := start + o.batchSize
		if end > len(items) {
			end = len(items)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = o.EnrichOne(gctx, items[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

// EnrichOne returns the enriched form of one raw item, memoized through the
// enrichment store. It never fails: any pipeline error yields a fallback
// item, which is cached with the shorter fallback TTL.
func (o *Orchestrator) EnrichOne(ctx context.Context, raw model.RawItem) model.EnrichedItem {
	if cached, err := o.store.Get(ctx, raw.ID); err != nil {
		o.log.Warn("enrichment cache read failed", "id", raw.ID, "error", err)
	} else if cached != nil {
		return *cached
	}

	item, err := o.pipeline(ctx, raw)
	fallback := false
	if err != nil {
		o.log.Warn("item enrichment failed, serving fallback", "id", raw.ID, "error", err)
		item = FallbackItem(raw)
		fallback = true
	}

	if err := o.store.Set(ctx, item, fallback); err != nil {
		o.log.Warn("enrichment cache write failed", "id", raw.ID, "error", err)
	}
	return item
}

// pipeline runs normalization, catalog matching and image resolution for one
// item. A panic in any stage is converted to an error so the orchestrator
// boundary can degrade it.
func (o *Orchestrator) pipeline(ctx context.Context, raw model.RawItem) (item model.EnrichedItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panic: %v", r)
		}
	}()

	norm := o.normalizer.Normalize(ctx, raw.Name)

	candidate, err := o.matcher.Match(ctx, norm.SearchQuery)
	if err != nil {
		return item, fmt.Errorf("catalog match: %w", err)
	}

	imageURL, images, imgErr := resolveImages(ctx, o.images, candidate, norm.SearchQuery)
	if imgErr != nil {
		// Image trouble never fails the item; it just lists without photos.
		o.log.Debug("image resolution unavailable", "id", raw.ID, "error", imgErr)
		imageURL, images = "", nil
	}

	item = model.EnrichedItem{
		ID:           raw.ID,
		Name:         displayName(norm, candidate, raw.Name),
		OriginalName: raw.Name,
		Brand:        norm.Brand,
		Model:        norm.Model,
		Size:         norm.Size,
		Variant:      norm.Variant,
		Price:        raw.Price,
		StockCount:   raw.StockCount,
		ImageURL:     imageURL,
		Images:       images,
		Matched:      candidate != nil,
		SearchQuery:  norm.SearchQuery,
	}

	if candidate != nil {
		if item.Brand == "" {
			item.Brand = candidate.Brand
		}
		if item.Model == "" {
			item.Model = candidate.Model
		}
		item.Colorway = candidate.Colorway
		item.RetailPrice = candidate.RetailPrice
		item.ReleaseDate = candidate.ReleaseDate
	}

	return item, nil
}

// FallbackItem builds a degraded enrichment from the deterministic parse
// alone: never matched, no image fields.
func FallbackItem(raw model.RawItem) model.EnrichedItem {
	det := Deterministic(raw.Name)
	return model.EnrichedItem{
		ID:           raw.ID,
		Name:         displayName(det, nil, raw.Name),
		OriginalName: raw.Name,
		Brand:        det.Brand,
		Model:        det.Model,
		Size:         det.Size,
		Variant:      det.Variant,
		Price:        raw.Price,
		StockCount:   raw.StockCount,
		Matched:      false,
		SearchQuery:  det.SearchQuery,
	}
}

// displayName picks the best available name: the matched candidate's, else
// one composed from the structured fields, else the raw name verbatim.
func displayName(n model.NormalizedName, candidate *model.CatalogCandidate, rawName string) string {
	if candidate != nil && candidate.Name != "" {
		return candidate.Name
	}

	parts := make([]string, 0, 3)
	if n.Brand != "" {
		parts = append(parts, n.Brand)
	}
	if n.Model != "" {
		parts = append(parts, n.Model)
	}
	if n.Variant != "" {
		parts = append(parts, n.Variant)
	}
	if len(parts) == 0 {
		return rawName
	}
	return strings.Join(parts, " ")
}
