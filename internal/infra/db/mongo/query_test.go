package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"teamdesk/internal/domain/shared/query"
)

func TestListFilterEmpty(t *testing.T) {
	filter := listFilter(nil, nil, query.Resolved{})
	assert.Equal(t, bson.M{}, filter)
}

func TestListFilterScopeOnly(t *testing.T) {
	scope := bson.M{"participant_ids": "alice"}
	filter := listFilter(scope, nil, query.Resolved{})
	assert.Equal(t, scope, filter)
}

func TestListFilterSearchQuotesRegexMeta(t *testing.T) {
	filter := listFilter(nil, []string{"title", "description"}, query.Resolved{Search: "a.b*"})

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"$regex": `a\.b\*`, "$options": "i"}, or[0]["title"])
	assert.Equal(t, bson.M{"$regex": `a\.b\*`, "$options": "i"}, or[1]["description"])
}

func TestListFilterCombinesClausesWithAnd(t *testing.T) {
	scope := bson.M{"creator_id": "alice"}
	filter := listFilter(scope, []string{"title"}, query.Resolved{
		Search: "deploy",
		Filters: []query.FilterClause{
			{Path: "status", Value: "open", Match: query.MatchExact},
			{Path: "title", Value: "run", Match: query.MatchSubstring},
		},
	})

	and, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 4)
	assert.Equal(t, scope, and[0])
	assert.Contains(t, and[1], "$or")
	assert.Equal(t, bson.M{"status": "open"}, and[2])
	assert.Equal(t, bson.M{"title": bson.M{"$regex": "run", "$options": "i"}}, and[3])
}

func TestListFilterCursorDirection(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	desc := listFilter(nil, nil, query.Resolved{
		Sort:        query.SortClause{Field: query.SortField{Path: "created_at", Kind: query.ValueTime}, Desc: true},
		CursorValue: at,
	})
	assert.Equal(t, bson.M{"created_at": bson.M{"$lt": at}}, desc)

	asc := listFilter(nil, nil, query.Resolved{
		Sort:        query.SortClause{Field: query.SortField{Path: "created_at", Kind: query.ValueTime}},
		CursorValue: at,
	})
	assert.Equal(t, bson.M{"created_at": bson.M{"$gt": at}}, asc)
}

func TestExactFilterValueCoercion(t *testing.T) {
	assert.Equal(t, true,
		exactFilterValue(query.FilterClause{Value: "true", Kind: query.ValueBool}))
	assert.Equal(t, int64(3),
		exactFilterValue(query.FilterClause{Value: "3", Kind: query.ValueInt}))
	assert.Equal(t, "open",
		exactFilterValue(query.FilterClause{Value: "open"}))

	// Unparseable input falls back to the raw string, matching nothing typed.
	assert.Equal(t, "maybe",
		exactFilterValue(query.FilterClause{Value: "maybe", Kind: query.ValueBool}))
}

func TestListFindOptionsSortAndOverfetch(t *testing.T) {
	opts := listFindOptions(query.Resolved{
		Sort:  query.SortClause{Field: query.SortField{Path: "updated_at"}, Desc: true},
		Limit: 20,
	})

	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(21), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)
}

func TestListFindOptionsAscending(t *testing.T) {
	opts := listFindOptions(query.Resolved{
		Sort:  query.SortClause{Field: query.SortField{Path: "title"}},
		Limit: 5,
	})
	assert.Equal(t, bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)
}
