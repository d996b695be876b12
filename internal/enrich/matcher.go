package enrich

import (
	"context"
	"strings"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// CatalogSearcher is the external catalog dependency. Implemented by
// client.Catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]model.CatalogCandidate, error)
}

// Matcher selects the best external catalog candidate for a search query.
type Matcher struct {
	log     *logger.Logger
	catalog CatalogSearcher
}

// NewMatcher creates a catalog matcher.
func NewMatcher(log *logger.Logger, catalog CatalogSearcher) *Matcher {
	return &Matcher{log: log.With("component", "matcher"), catalog: catalog}
}

// Scoring weights. Brand and model hits outweigh display-name hits, and a
// candidate with any image gets a flat bonus since it can be listed without
// an extra image-search call.
const (
	scoreNameHit    = 2
	scoreBrandHit   = 3
	scoreModelHit   = 3
	scoreImageBonus = 5
)

// Match searches the catalog and returns the highest-scoring candidate, or
// nil when the catalog returns no results. Ties keep the provider's result
// order: the first candidate with the maximum score wins.
func (m *Matcher) Match(ctx context.Context, query string) (*model.CatalogCandidate, error) {
	candidates, err := m.catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := 0
	bestScore := Score(query, candidates[0])
	for i := 1; i < len(candidates); i++ {
		if s := Score(query, candidates[i]); s > bestScore {
			best, bestScore = i, s
		}
	}

	m.log.Debug("catalog match selected",
		"query", query, "candidate", candidates[best].ID, "score", bestScore)
	return &candidates[best], nil
}

// Score rates a candidate against the query: per whitespace token, +2 when
// the token appears in the display name, +3 in the brand, +3 in the model;
// plus a flat +5 when the candidate carries at least one image. Matching is
// case-insensitive substring containment.
func Score(query string, c model.CatalogCandidate) int {
	name := strings.ToLower(c.Name)
	brand := strings.ToLower(c.Brand)
	mdl := strings.ToLower(c.Model)

	score := 0
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(name, token) {
			score += scoreNameHit
		}
		if strings.Contains(brand, token) {
			score += scoreBrandHit
		}
		if strings.Contains(mdl, token) {
			score += scoreModelHit
		}
	}

	if c.HasImage() {
		score += scoreImageBonus
	}
	return score
}
