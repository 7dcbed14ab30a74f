package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/domain/shared/apperr"
)

var testSpec = FieldSpec{
	SearchPaths: []string{"name", "email"},
	Filters: map[string]FilterField{
		"role":     {Path: "role", Match: MatchExact},
		"name":     {Path: "name", Match: MatchSubstring},
		"isActive": {Path: "is_active", Match: MatchExact, Kind: ValueBool},
	},
	Sorts: map[string]SortField{
		"created_at": {Path: "created_at", Kind: ValueTime},
		"name":       {Path: "name", Kind: ValueString},
	},
	DefaultSortBy: "created_at",
}

var testLimits = Limits{Default: 20, Max: 100}

func TestNormalizeDefaults(t *testing.T) {
	resolved, err := ListParams{}.Normalize(testSpec, testLimits)
	require.NoError(t, err)

	assert.Equal(t, "created_at", resolved.Sort.Field.Path)
	assert.True(t, resolved.Sort.Desc)
	assert.Equal(t, 20, resolved.Limit)
	assert.Empty(t, resolved.Filters)
	assert.Nil(t, resolved.CursorValue)
}

func TestNormalizeDropsUnknownFilters(t *testing.T) {
	resolved, err := ListParams{
		Filters: map[string]string{
			"role":    "admin",
			"unknown": "whatever",
			"name":    "  li  ",
			"blank":   "",
		},
	}.Normalize(testSpec, testLimits)
	require.NoError(t, err)

	require.Len(t, resolved.Filters, 2)
	assert.Equal(t, FilterClause{Path: "name", Value: "li", Match: MatchSubstring}, resolved.Filters[0])
	assert.Equal(t, FilterClause{Path: "role", Value: "admin", Match: MatchExact}, resolved.Filters[1])
}

func TestNormalizeFilterCarriesValueKind(t *testing.T) {
	resolved, err := ListParams{
		Filters: map[string]string{"isActive": "true"},
	}.Normalize(testSpec, testLimits)
	require.NoError(t, err)

	require.Len(t, resolved.Filters, 1)
	assert.Equal(t, ValueBool, resolved.Filters[0].Kind)
}

func TestNormalizeInvalidSortFallsBack(t *testing.T) {
	resolved, err := ListParams{SortBy: "nope", SortOrder: "asc"}.Normalize(testSpec, testLimits)
	require.NoError(t, err)

	assert.Equal(t, "created_at", resolved.Sort.Field.Path)
	assert.False(t, resolved.Sort.Desc)
}

func TestNormalizeSortOrder(t *testing.T) {
	for raw, wantDesc := range map[string]bool{
		"asc":  false,
		"ASC":  false,
		"desc": true,
		"":     true,
		"junk": true,
	} {
		resolved, err := ListParams{SortOrder: raw}.Normalize(testSpec, testLimits)
		require.NoError(t, err)
		assert.Equal(t, wantDesc, resolved.Sort.Desc, "order %q", raw)
	}
}

func TestNormalizeLimitBounds(t *testing.T) {
	for limit, want := range map[int]int{
		0:    20,
		-5:   20,
		101:  20,
		1:    1,
		100:  100,
		42:   42,
		1000: 20,
	} {
		resolved, err := ListParams{Limit: limit}.Normalize(testSpec, testLimits)
		require.NoError(t, err)
		assert.Equal(t, want, resolved.Limit, "limit %d", limit)
	}
}

func TestNormalizeCursorForSortKind(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	resolved, err := ListParams{Cursor: EncodeCursor(at)}.Normalize(testSpec, testLimits)
	require.NoError(t, err)
	assert.Equal(t, at, resolved.CursorValue)

	resolved, err = ListParams{SortBy: "name", Cursor: EncodeCursor("mallory")}.Normalize(testSpec, testLimits)
	require.NoError(t, err)
	assert.Equal(t, "mallory", resolved.CursorValue)
}

func TestNormalizeMalformedCursor(t *testing.T) {
	_, err := ListParams{Cursor: "not-a-time"}.Normalize(testSpec, testLimits)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCursor, apperr.KindOf(err))
}

func TestNormalizeIDsPath(t *testing.T) {
	resolved, err := ListParams{
		IDs:    []string{" a ", "", "b"},
		Search: "ignored",
		Cursor: "ignored-too",
	}.Normalize(testSpec, testLimits)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, resolved.IDs)
	assert.Empty(t, resolved.Search)
	assert.Nil(t, resolved.CursorValue)
}

func TestNormalizeIDsAllBlank(t *testing.T) {
	_, err := ListParams{IDs: []string{" ", ""}}.Normalize(testSpec, testLimits)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestNormalizeIDsOverCap(t *testing.T) {
	ids := strings.Split(strings.Repeat("x,", MaxIDLookup+1), ",")
	_, err := ListParams{IDs: ids[:MaxIDLookup+1]}.Normalize(testSpec, testLimits)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestNormalizeTrimsSearch(t *testing.T) {
	resolved, err := ListParams{Search: "  bob  "}.Normalize(testSpec, testLimits)
	require.NoError(t, err)
	assert.Equal(t, "bob", resolved.Search)
}
