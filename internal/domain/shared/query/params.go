package query

import (
	"fmt"
	"sort"
	"strings"

	"teamdesk/internal/domain/shared/apperr"
)

// MaxIDLookup caps the explicit id-set lookup path.
const MaxIDLookup = 100

// Limits bound page sizes for an entity listing.
type Limits struct {
	Default int
	Max     int
}

// ListParams carries raw listing input as received from the transport.
type ListParams struct {
	Search    string
	Filters   map[string]string
	SortBy    string
	SortOrder string
	Cursor    string
	Limit     int
	IDs       []string
}

// FilterClause is a resolved filter predicate against one storage path.
type FilterClause struct {
	Path  string
	Value string
	Match MatchKind
	Kind  ValueKind
}

// SortClause is the resolved ordering.
type SortClause struct {
	Field SortField
	Desc  bool
}

// Resolved is a normalized, storage-ready view of ListParams. Exactly one of
// IDs or the paginated predicate set is in effect: a non-empty IDs slice
// switches the store to the non-paginated id-set lookup.
type Resolved struct {
	Search      string
	Filters     []FilterClause
	Sort        SortClause
	CursorValue any
	Limit       int
	IDs         []string
}

// Normalize validates and resolves raw parameters against the entity's field
// spec. Unknown filter and sort names fall away silently; only a malformed
// cursor or a bad id set is reported to the caller.
func (p ListParams) Normalize(spec FieldSpec, limits Limits) (Resolved, error) {
	resolved := Resolved{
		Sort:  resolveSort(spec, p.SortBy, p.SortOrder),
		Limit: resolveLimit(p.Limit, limits),
	}

	if len(p.IDs) > 0 {
		ids := make([]string, 0, len(p.IDs))
		for _, id := range p.IDs {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return Resolved{}, apperr.Validation("ids must contain at least one identifier")
		}
		if len(ids) > MaxIDLookup {
			return Resolved{}, apperr.Validation(fmt.Sprintf("ids exceeds the maximum of %d entries", MaxIDLookup))
		}
		resolved.IDs = ids
		return resolved, nil
	}

	resolved.Search = strings.TrimSpace(p.Search)
	resolved.Filters = resolveFilters(spec, p.Filters)

	if raw := strings.TrimSpace(p.Cursor); raw != "" {
		value, err := DecodeCursor(raw, resolved.Sort.Field.Kind)
		if err != nil {
			return Resolved{}, err
		}
		resolved.CursorValue = value
	}
	return resolved, nil
}

func resolveSort(spec FieldSpec, by, order string) SortClause {
	field, ok := spec.Sorts[by]
	if !ok {
		field = spec.DefaultSort()
	}
	return SortClause{
		Field: field,
		Desc:  !strings.EqualFold(strings.TrimSpace(order), "asc"),
	}
}

func resolveLimit(limit int, limits Limits) int {
	if limit < 1 || limit > limits.Max {
		return limits.Default
	}
	return limit
}

func resolveFilters(spec FieldSpec, raw map[string]string) []FilterClause {
	if len(raw) == 0 {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	clauses := make([]FilterClause, 0, len(keys))
	for _, key := range keys {
		field, ok := spec.Filters[key]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw[key])
		if value == "" {
			continue
		}
		clauses = append(clauses, FilterClause{Path: field.Path, Value: value, Match: field.Match, Kind: field.Kind})
	}
	return clauses
}
