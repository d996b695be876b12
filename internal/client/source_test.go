package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

func writePage(t *testing.T, w http.ResponseWriter, items []model.RawItem, cursor string) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(sourcePage{Items: items, Cursor: cursor}))
}

func TestSourceFetchAllPaginates(t *testing.T) {
	pages := map[string]sourcePage{
		"": {
			Items:  []model.RawItem{{ID: "1", Name: "a", Price: 100}, {ID: "2", Name: "b", Price: 200}},
			Cursor: "c1",
		},
		"c1": {
			Items:  []model.RawItem{{ID: "3", Name: "c", Price: 300}},
			Cursor: "",
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		page := pages[r.URL.Query().Get("cursor")]
		writePage(t, w, page.Items, page.Cursor)
	}))
	defer srv.Close()

	s := NewSource(logger.NewNop(), SourceConfig{BaseURL: srv.URL, Token: "secret", PageSize: 2})

	got, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[2].ID)
}

func TestSourceFetchAllStopsOnShortPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Short page with a cursor still present: the client must stop.
		writePage(t, w, []model.RawItem{{ID: "1", Name: "a", Price: 100}}, "more")
	}))
	defer srv.Close()

	s := NewSource(logger.NewNop(), SourceConfig{BaseURL: srv.URL, PageSize: 50})

	got, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, calls)
}

func TestSourceFetchAllCapsPages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Full pages forever; the cap must stop the loop.
		items := []model.RawItem{{ID: fmt.Sprintf("%d", calls), Name: "x", Price: 100}}
		writePage(t, w, items, fmt.Sprintf("c%d", calls))
	}))
	defer srv.Close()

	s := NewSource(logger.NewNop(), SourceConfig{BaseURL: srv.URL, PageSize: 1, MaxPages: 3})

	got, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 3, calls)
}

func TestSourceRetriesFirstPageWithoutSizeHint(t *testing.T) {
	var sawLimit, sawNoLimit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "" {
			sawLimit = true
			http.Error(w, `{"error":"limit not supported"}`, http.StatusBadRequest)
			return
		}
		sawNoLimit = true
		writePage(t, w, []model.RawItem{{ID: "1", Name: "a", Price: 100}}, "")
	}))
	defer srv.Close()

	s := NewSource(logger.NewNop(), SourceConfig{BaseURL: srv.URL, PageSize: 25})

	got, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, sawLimit)
	assert.True(t, sawNoLimit)
}

func TestSourceFailureAfterRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSource(logger.NewNop(), SourceConfig{BaseURL: srv.URL, PageSize: 25})

	_, err := s.FetchAll(context.Background())
	assert.Error(t, err)
}
