// Package paging provides cursor-driven page collection for AWS list APIs.
package paging

import "context"

// FetchFunc returns one page of items plus the cursor for the next page.
// A nil or empty cursor ends the sequence.
type FetchFunc[T any] func(ctx context.Context, cursor *string) (items []T, next *string, err error)

// Collect drains a paginated listing into one slice. On error it returns
// the items gathered so far together with the error, so callers can keep
// partial results.
func Collect[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	var all []T
	var cursor *string

	for {
		items, next, err := fetch(ctx, cursor)
		all = append(all, items...)
		if err != nil {
			return all, err
		}
		if next == nil || *next == "" {
			return all, nil
		}
		cursor = next
	}
}
