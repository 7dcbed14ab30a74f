package mongo

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teamdesk/internal/domain/shared/query"
)

// listFilter assembles the typed predicate document for a paginated listing.
// Every part is ANDed: the caller's scope, the free-text search, the resolved
// filter clauses and the cursor comparison on the sort path. Values are never
// interpolated into query strings; user input only ever appears as a bson
// value or a quoted regex.
func listFilter(scope bson.M, searchPaths []string, params query.Resolved) bson.M {
	parts := make([]bson.M, 0, 3+len(params.Filters))
	if len(scope) > 0 {
		parts = append(parts, scope)
	}

	if params.Search != "" && len(searchPaths) > 0 {
		or := make([]bson.M, 0, len(searchPaths))
		pattern := regexp.QuoteMeta(params.Search)
		for _, path := range searchPaths {
			or = append(or, bson.M{path: bson.M{"$regex": pattern, "$options": "i"}})
		}
		parts = append(parts, bson.M{"$or": or})
	}

	for _, clause := range params.Filters {
		switch clause.Match {
		case query.MatchSubstring:
			parts = append(parts, bson.M{clause.Path: bson.M{"$regex": regexp.QuoteMeta(clause.Value), "$options": "i"}})
		default:
			parts = append(parts, bson.M{clause.Path: exactFilterValue(clause)})
		}
	}

	if params.CursorValue != nil {
		op := "$gt"
		if params.Sort.Desc {
			op = "$lt"
		}
		parts = append(parts, bson.M{params.Sort.Field.Path: bson.M{op: params.CursorValue}})
	}

	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0]
	}
	return bson.M{"$and": parts}
}

// exactFilterValue coerces the raw filter string to the stored field type so
// equality matches typed documents.
func exactFilterValue(clause query.FilterClause) any {
	switch clause.Kind {
	case query.ValueBool:
		if b, err := strconv.ParseBool(clause.Value); err == nil {
			return b
		}
	case query.ValueInt:
		if n, err := strconv.ParseInt(clause.Value, 10, 64); err == nil {
			return n
		}
	}
	return clause.Value
}

// listFindOptions orders by the sort path with an _id tiebreak and fetches
// one row past the page size so the caller can derive HasMore.
func listFindOptions(params query.Resolved) *options.FindOptions {
	dir := 1
	if params.Sort.Desc {
		dir = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: params.Sort.Field.Path, Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(int64(params.Limit + 1))
}
