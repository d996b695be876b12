// Package client holds the HTTP clients for the external collaborators: the
// point-of-sale inventory source, the AI name-normalization service, the
// product catalog search and the image-search provider.
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

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// Source fetches the raw inventory from the point-of-sale system. The source
// remains the authority on inventory; this client only reads.
type Source struct {
	log        *logger.Logger
	baseURL    string
	token      string
	pageSize   int
	maxPages   int
	httpClient *http.Client
}

// SourceConfig holds the source client settings.
type SourceConfig struct {
	BaseURL  string
	Token    string
	PageSize int
	MaxPages int
	Timeout  time.Duration
}

// NewSource creates a point-of-sale inventory client.
func NewSource(log *logger.Logger, cfg SourceConfig) *Source {
	pageSize := cfg.PageSize
	if pageSize < 0 {
		pageSize = 0
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 20
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Source{
		log:        log.With("client", "source"),
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		pageSize:   pageSize,
		maxPages:   maxPages,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// sourcePage is one page of the source's paginated item listing.
type sourcePage struct {
	Items  []model.RawItem `json:"items"`
	Cursor string          `json:"cursor"`
}

// FetchAll fetches the complete inventory, paginating until the source
// returns a short page or no next-page cursor, capped at maxPages. If the
// first page fails while a page-size hint is set, it is retried once without
// the hint; some source deployments reject the limit parameter.
func (s *Source) FetchAll(ctx context.Context) ([]model.RawItem, error) {
	var all []model.RawItem
	cursor := ""
	limit := s.pageSize

	for page := 0; page < s.maxPages; page++ {
		result, err := s.fetchPage(ctx, cursor, limit)
		if err != nil {
			if page == 0 && limit > 0 {
				s.log.Warn("first page fetch failed, retrying without page size hint", "error", err)
				limit = 0
				result, err = s.fetchPage(ctx, cursor, 0)
			}
			if err != nil {
				return nil, fmt.Errorf("source fetch: %w", err)
			}
		}

		all = append(all, result.Items...)

		if result.Cursor == "" {
			break
		}
		if limit > 0 && len(result.Items) < limit {
			break
		}
		cursor = result.Cursor
	}

	s.log.Debug("inventory fetched", "items", len(all))
	return all, nil
}

func (s *Source) fetchPage(ctx context.Context, cursor string, limit int) (*sourcePage, error) {
	u, err := url.Parse(s.baseURL + "/items")
	if err != nil {
		return nil, err
	}

	q := u.Query()
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var page sourcePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("source payload: %w", err)
	}
	return &page, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
