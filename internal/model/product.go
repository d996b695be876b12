package model

// RawItem is an inventory record as received from the point-of-sale source,
// before any normalization. Price is in minor currency units; zero means the
// source did not report one. StockCount is nil when the source did not
// report a count.
type RawItem struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Price      int64          `json:"price"`
	StockCount *int           `json:"stockCount,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Sellable reports whether the raw item passes the listing filter: a known
// positive price, and stock either unreported or positive.
func (r RawItem) Sellable() bool {
	if r.Price <= 0 {
		return false
	}
	if r.StockCount != nil && *r.StockCount <= 0 {
		return false
	}
	return true
}

// NormalizedName holds the structured fields extracted from a free-text
// product name. All fields are optional; SearchQuery is the string handed to
// the catalog and image searches.
type NormalizedName struct {
	Brand       string `json:"brand,omitempty"`
	Model       string `json:"model,omitempty"`
	Size        string `json:"size,omitempty"`
	Variant     string `json:"variant,omitempty"`
	SearchQuery string `json:"searchQuery,omitempty"`
}

// CatalogCandidate is one result from the external catalog search. Candidates
// are transient and never persisted.
type CatalogCandidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Model       string   `json:"model,omitempty"`
	Colorway    string   `json:"colorway,omitempty"`
	RetailPrice int64    `json:"retailPrice,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// HasImage reports whether the candidate carries any usable image.
func (c CatalogCandidate) HasImage() bool {
	return c.ImageURL != "" || len(c.Images) > 0
}

// EnrichedItem is the serving-facing product entity. ID always equals the
// originating RawItem.ID. Matched is true iff a catalog candidate was
// selected; an image resolved via image search alone does not set it.
type EnrichedItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	OriginalName string   `json:"originalName"`
	Brand        string   `json:"brand,omitempty"`
	Model        string   `json:"model,omitempty"`
	Size         string   `json:"size,omitempty"`
	Variant      string   `json:"variant,omitempty"`
	Price        int64    `json:"price"`
	StockCount   *int     `json:"stockCount,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Images       []string `json:"images,omitempty"`
	Colorway     string   `json:"colorway,omitempty"`
	RetailPrice  int64    `json:"retailPrice,omitempty"`
	ReleaseDate  string   `json:"releaseDate,omitempty"`
	Matched      bool     `json:"matched"`
	SearchQuery  string   `json:"searchQuery,omitempty"`
}

// InStock reports whether the enriched item is still sellable after
// enrichment possibly overwrote its stock count.
func (e EnrichedItem) InStock() bool {
	return e.StockCount == nil || *e.StockCount > 0
}

// PageResult is one page of the enriched product feed. Total, TotalPages and
// HasMore are computed from the raw-valid item count; the post-enrichment
// stock filter may shrink Items without changing them.
type PageResult struct {
	Items      []EnrichedItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
	HasMore    bool           `json:"hasMore"`
}

// Metadata summarizes the inventory for facet navigation. Brands and Sizes
// come from the deterministic parser only, so they may disagree with the
// enriched values shown in listings.
type Metadata struct {
	Total  int      `json:"total"`
	Brands []string `json:"brands"`
	Sizes  []string `json:"sizes"`
}
