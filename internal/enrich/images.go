package enrich

import (
	"context"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/model"
)

// ImageSearcher is the external image-search dependency. Implemented by
// client.ImageSearch; a missing credential returns empty results, not an
// error.
type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// resolveImages picks a display image for the item. A matched candidate's
// images are used verbatim, preferring ImageURL over the first Images entry.
// Only when the candidate has none does the resolver spend an image-search
// call on the query.
func resolveImages(ctx context.Context, searcher ImageSearcher, candidate *model.CatalogCandidate, query string) (string, []string, error) {
	if candidate != nil {
		if candidate.ImageURL != "" {
			images := candidate.Images
			if len(images) == 0 {
				images = []string{candidate.ImageURL}
			}
			return candidate.ImageURL, images, nil
		}
		if len(candidate.Images) > 0 {
			return candidate.Images[0], candidate.Images, nil
		}
	}

	if searcher == nil || query == "" {
		return "", nil, nil
	}

	urls, err := searcher.Search(ctx, query)
	if err != nil {
		return "", nil, err
	}
	if len(urls) == 0 {
		return "", nil, nil
	}
	return urls[0], urls, nil
}
