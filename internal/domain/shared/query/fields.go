package query

// MatchKind selects how a filter value is compared against stored data.
type MatchKind int

const (
	// MatchExact compares by equality.
	MatchExact MatchKind = iota
	// MatchSubstring compares by case-insensitive containment.
	MatchSubstring
)

// ValueKind is the type of a stored field. For sorts it drives the cursor
// round-trip; for exact filters it tells typed stores how to coerce the raw
// string value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueTime
	ValueInt
	ValueBool
)

// FilterField binds an external filter name to a storage path.
type FilterField struct {
	Path  string
	Match MatchKind
	Kind  ValueKind
}

// SortField binds an external sort name to a storage path and value type.
type SortField struct {
	Path string
	Kind ValueKind
}

// FieldSpec declares, per entity type, which fields are searchable,
// filterable and sortable. It is a pure lookup table shared by all workers.
type FieldSpec struct {
	// SearchPaths are the storage paths matched by free-text search.
	SearchPaths []string
	// Filters maps external filter names to their comparison semantics.
	// Unknown names are dropped during normalization, never rejected.
	Filters map[string]FilterField
	// Sorts is the allow-list of sortable fields.
	Sorts map[string]SortField
	// DefaultSortBy names the sort applied when input is absent or invalid.
	DefaultSortBy string
}

// DefaultSort returns the spec's fallback sort field.
func (s FieldSpec) DefaultSort() SortField {
	return s.Sorts[s.DefaultSortBy]
}
