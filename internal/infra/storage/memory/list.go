package memory

import (
	"strconv"
	"strings"
	"time"

	"teamdesk/internal/domain/shared/query"
)

// Listing helpers shared by the in-memory repositories. They mirror the
// database-side predicate semantics: free-text search is a case-insensitive
// substring match across the entity's search paths, filter clauses are ANDed,
// and the cursor is a strict comparison on the resolved sort value.

func matchesSearch(search string, paths []string, value func(path string) string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, path := range paths {
		if strings.Contains(strings.ToLower(value(path)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(clauses []query.FilterClause, value func(path string) string) bool {
	for _, clause := range clauses {
		field := value(clause.Path)
		switch clause.Match {
		case query.MatchSubstring:
			if !strings.Contains(strings.ToLower(field), strings.ToLower(clause.Value)) {
				return false
			}
		default:
			if !exactMatch(clause, field) {
				return false
			}
		}
	}
	return true
}

func exactMatch(clause query.FilterClause, field string) bool {
	if clause.Kind == query.ValueBool {
		want, err := strconv.ParseBool(clause.Value)
		if err != nil {
			return false
		}
		have, err := strconv.ParseBool(field)
		return err == nil && have == want
	}
	return field == clause.Value
}

// afterCursor reports whether a row's sort value lies strictly beyond the
// cursor in the traversal direction.
func afterCursor(sortValue, cursor any, desc bool) bool {
	cmp := compareSortValues(sortValue, cursor)
	if desc {
		return cmp < 0
	}
	return cmp > 0
}

func compareSortValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0
		}
		return strings.Compare(av, bv)
	case int:
		return compareInt64(int64(av), toInt64(b))
	case int64:
		return compareInt64(av, toInt64(b))
	}
	return 0
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// lessInOrder orders two rows for a page: by sort value in the requested
// direction, then by id so equal keys traverse deterministically.
func lessInOrder(sortA, sortB any, idA, idB string, desc bool) bool {
	cmp := compareSortValues(sortA, sortB)
	if cmp == 0 {
		return idA < idB
	}
	if desc {
		return cmp > 0
	}
	return cmp < 0
}
