package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/service"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/apierror"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/response"
)

// ProductsHandler handles product feed HTTP requests.
type ProductsHandler struct {
	feed *service.Feed
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(feed *service.Feed) *ProductsHandler {
	return &ProductsHandler{feed: feed}
}

// List handles GET /api/v1/products?page=&pageSize=
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil || page < 1 {
		response.Error(w, apierror.BadRequest("page must be a positive integer"))
		return
	}

	pageSize, err := queryInt(r, "pageSize", h.feed.DefaultPageSize())
	if err != nil || pageSize < 1 {
		response.Error(w, apierror.BadRequest("pageSize must be a positive integer"))
		return
	}

	result, err := h.feed.Page(r.Context(), page, pageSize)
	if err != nil {
		response.Error(w, mapFeedError(err))
		return
	}

	response.OK(w, result)
}

// Meta handles GET /api/v1/products/meta. The all=true query flag is
// accepted for compatibility; the payload is the same either way.
func (h *ProductsHandler) Meta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.feed.Meta(r.Context())
	if err != nil {
		response.Error(w, mapFeedError(err))
		return
	}

	response.OK(w, meta)
}

// Get handles GET /api/v1/products/{id}
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.Error(w, apierror.BadRequest("id is required"))
		return
	}

	item, err := h.feed.Item(r.Context(), id)
	if err != nil {
		response.Error(w, mapFeedError(err))
		return
	}

	response.OK(w, item)
}

// Raw handles GET /api/v1/inventory/raw - the filtered snapshot, for
// diagnostics.
func (h *ProductsHandler) Raw(w http.ResponseWriter, r *http.Request) {
	items, err := h.feed.RawInventory(r.Context())
	if err != nil {
		response.Error(w, mapFeedError(err))
		return
	}

	response.OK(w, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

// mapFeedError converts service errors into API errors.
func mapFeedError(err error) error {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return apierror.NotFound("product not found or out of stock")
	case errors.Is(err, service.ErrSourceUnavailable):
		return apierror.SourceUnavailable("inventory unavailable")
	default:
		return err
	}
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
