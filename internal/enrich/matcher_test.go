package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

type fakeCatalog struct {
	results []model.CatalogCandidate
	err     error
	calls   int
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]model.CatalogCandidate, error) {
	f.calls++
	return f.results, f.err
}

func TestScore(t *testing.T) {
	c := model.CatalogCandidate{
		Name:  "Nike Air Force 1 Low White",
		Brand: "Nike",
		Model: "Air Force 1",
	}

	// "nike": +2 name, +3 brand. "force": +2 name, +3 model. No image.
	assert.Equal(t, 10, Score("nike force", c))

	c.ImageURL = "https://img.example.com/af1.jpg"
	assert.Equal(t, 15, Score("nike force", c))

	assert.Equal(t, 5, Score("reebok", c))
	assert.Equal(t, 0, Score("reebok", model.CatalogCandidate{Name: "Nike"}))
}

func TestMatchPicksHighestScore(t *testing.T) {
	catalog := &fakeCatalog{results: []model.CatalogCandidate{
		{ID: "a", Name: "Converse Chuck 70"},
		{ID: "b", Name: "Nike Air Force 1", Brand: "Nike", Model: "Air Force 1"},
		{ID: "c", Name: "Nike Air Max 90", Brand: "Nike"},
	}}
	m := NewMatcher(logger.NewNop(), catalog)

	got, err := m.Match(context.Background(), "nike air force 1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
}

func TestMatchTieBreakIsStable(t *testing.T) {
	// Identical candidates score identically; the first in provider order
	// must win, every time.
	catalog := &fakeCatalog{results: []model.CatalogCandidate{
		{ID: "first", Name: "Adidas Samba OG", Brand: "Adidas"},
		{ID: "second", Name: "Adidas Samba OG", Brand: "Adidas"},
	}}
	m := NewMatcher(logger.NewNop(), catalog)

	for i := 0; i < 10; i++ {
		got, err := m.Match(context.Background(), "adidas samba")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "first", got.ID)
	}
}

func TestMatchEmptyResultsReturnsNil(t *testing.T) {
	m := NewMatcher(logger.NewNop(), &fakeCatalog{})

	got, err := m.Match(context.Background(), "anything")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMatchPropagatesSearchError(t *testing.T) {
	m := NewMatcher(logger.NewNop(), &fakeCatalog{err: errors.New("catalog down")})

	got, err := m.Match(context.Background(), "anything")
	assert.Error(t, err)
	assert.Nil(t, got)
}
