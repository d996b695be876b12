package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// Catalog searches the external product catalog for candidates matching a
// free-text query. An empty result list is a valid, non-error outcome.
type Catalog struct {
	log        *logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
}

// CatalogConfig holds the catalog client settings.
type CatalogConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewCatalog creates a catalog search client.
func NewCatalog(log *logger.Logger, cfg CatalogConfig) *Catalog {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Catalog{
		log:        log.With("client", "catalog"),
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type catalogSearchResponse struct {
	Results []model.CatalogCandidate `json:"results"`
}

// Search returns catalog candidates for the query in the provider's ranking
// order. The order matters: the matcher breaks score ties by position.
func (c *Catalog) Search(ctx context.Context, query string) ([]model.CatalogCandidate, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var search catalogSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("catalog payload: %w", err)
	}
	return search.Results, nil
}
