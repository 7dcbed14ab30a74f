package query

// Page is one window of a listing. Total counts the items in this window,
// not every row matching the predicate.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	NextCursor string
	Total      int
}

// NewPage trims a limit+1 fetch down to the page size and derives the next
// cursor from the last retained item's sort-key value. NextCursor is set
// exactly when HasMore is true.
func NewPage[T any](items []T, limit int, sortKey func(T) any) Page[T] {
	if limit > 0 && len(items) > limit {
		retained := items[:limit:limit]
		return Page[T]{
			Items:      retained,
			HasMore:    true,
			NextCursor: EncodeCursor(sortKey(retained[limit-1])),
			Total:      limit,
		}
	}
	return Page[T]{Items: items, Total: len(items)}
}

// IDPage wraps an id-set lookup result; the id path never paginates.
func IDPage[T any](items []T) Page[T] {
	return Page[T]{Items: items, Total: len(items)}
}
