package ginserver

import (
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"teamdesk/internal/domain/shared/query"
)

// parseListParams collects the shared listing surface from the query string:
// search, per-entity filter names, sortBy/sortOrder, cursor, limit and the
// non-paginated ids path. Unknown query keys are simply not collected.
func parseListParams(c *gin.Context, spec query.FieldSpec) query.ListParams {
	params := query.ListParams{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Cursor:    c.Query("cursor"),
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			params.Limit = n
		}
	}
	if raw := c.Query("ids"); raw != "" {
		params.IDs = strings.Split(raw, ",")
	}
	for name := range spec.Filters {
		if value, ok := c.GetQuery(name); ok {
			if params.Filters == nil {
				params.Filters = make(map[string]string)
			}
			params.Filters[name] = value
		}
	}
	return params
}
