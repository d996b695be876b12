package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// ImageSearch queries an external image-search provider for product photos.
// Without an API key the client is a no-op: every search returns empty
// without touching the network.
type ImageSearch struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

// ImageSearchConfig holds the image-search client settings.
type ImageSearchConfig struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	Timeout    time.Duration
}

// NewImageSearch creates an image-search client.
func NewImageSearch(log *logger.Logger, cfg ImageSearchConfig) *ImageSearch {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &ImageSearch{
		log:        log.With("client", "imagesearch"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the provider is configured with a credential.
func (c *ImageSearch) Enabled() bool {
	return c.apiKey != ""
}

type imageSearchResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// Search returns up to maxResults image URLs for the query. A missing
// credential yields no results rather than an error.
func (c *ImageSearch) Search(ctx context.Context, query string) ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}

	u, err := url.Parse(c.baseURL + "/images/search")
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("num", strconv.Itoa(c.maxResults))
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
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
		return nil, fmt.Errorf("image search http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var search imageSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("image search payload: %w", err)
	}

	urls := make([]string, 0, len(search.Images))
	for _, img := range search.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls, nil
}
