package gam

import "context"

// SuggestedPageSize is the page size used when assembling full result sets.
const SuggestedPageSize = 500

// Page is one page of a remote list query.
type Page[T any] struct {
	Results            []T `json:"results"`
	TotalResultSetSize int `json:"totalResultSetSize"`
}

// FetchAll drains a paginated list query into a single slice: fetch a page,
// accumulate, advance the offset by the page's size, stop once the offset
// reaches the reported total. No partial results are ever returned; the first
// page error aborts the whole fetch.
func FetchAll[T any](ctx context.Context, fetch func(ctx context.Context, offset, limit int) (Page[T], error)) ([]T, error) {
	var all []T
	offset := 0
	for {
		page, err := fetch(ctx, offset, SuggestedPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		offset += len(page.Results)
		if offset >= page.TotalResultSetSize || len(page.Results) == 0 {
			return all, nil
		}
	}
}
