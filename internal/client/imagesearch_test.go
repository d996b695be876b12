package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

func TestImageSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nike dunk low", r.URL.Query().Get("q"))
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"images":[{"url":"https://img.example.com/1.jpg"},{"url":"https://img.example.com/2.jpg"},{"url":""}]}`)
	}))
	defer srv.Close()

	c := NewImageSearch(logger.NewNop(), ImageSearchConfig{BaseURL: srv.URL, APIKey: "key"})

	got, err := c.Search(context.Background(), "nike dunk low")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"}, got)
}

func TestImageSearchMissingCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without an api key")
	}))
	defer srv.Close()

	c := NewImageSearch(logger.NewNop(), ImageSearchConfig{BaseURL: srv.URL})

	got, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, c.Enabled())
}

func TestImageSearchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewImageSearch(logger.NewNop(), ImageSearchConfig{BaseURL: srv.URL, APIKey: "key"})

	_, err := c.Search(context.Background(), "anything")
	assert.Error(t, err)
}
