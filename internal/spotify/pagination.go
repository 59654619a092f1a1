package spotify

import (
	"context"
	"fmt"
)

// PageFetcher returns one page of results at the given offset. The limit
// is already clamped to the remaining item budget.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) (*Page[T], error)

// FetchAllPages walks an offset-paginated endpoint until the server
// reports no next page or maxItems have been collected, whichever comes
// first. pageSize is the per-request limit; the final request shrinks to
// the remaining budget so no more than maxItems are ever requested.
func FetchAllPages[T any](ctx context.Context, fetch PageFetcher[T], pageSize, maxItems int) ([]T, error) {
	if pageSize <= 0 || maxItems <= 0 {
		return nil, fmt.Errorf("invalid pagination bounds: pageSize=%d maxItems=%d", pageSize, maxItems)
	}

	items := make([]T, 0, maxItems)
	offset := 0
	for len(items) < maxItems {
		limit := pageSize
		if remaining := maxItems - len(items); remaining < limit {
			limit = remaining
		}

		page, err := fetch(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += pageSize
	}

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}
