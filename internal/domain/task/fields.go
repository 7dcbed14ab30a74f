package task

import (
	"strconv"
	"time"

	"teamdesk/internal/domain/shared/query"
)

// Storage paths for task documents.
const (
	PathTitle       = "title"
	PathDescription = "description"
	PathStatus      = "status"
	PathPriority    = "priority"
	PathDueDate     = "due_date"
	PathCreatedAt   = "created_at"
	PathUpdatedAt   = "updated_at"
)

var fieldSpec = query.FieldSpec{
	SearchPaths: []string{PathTitle, PathDescription},
	Filters: map[string]query.FilterField{
		"status":   {Path: PathStatus, Match: query.MatchExact},
		"priority": {Path: PathPriority, Match: query.MatchExact, Kind: query.ValueInt},
		"title":    {Path: PathTitle, Match: query.MatchSubstring},
	},
	Sorts: map[string]query.SortField{
		"created_at": {Path: PathCreatedAt, Kind: query.ValueTime},
		"updated_at": {Path: PathUpdatedAt, Kind: query.ValueTime},
		"due_date":   {Path: PathDueDate, Kind: query.ValueTime},
		"priority":   {Path: PathPriority, Kind: query.ValueInt},
		"title":      {Path: PathTitle, Kind: query.ValueString},
	},
	DefaultSortBy: "created_at",
}

// Fields returns the task filter/sort specification.
func Fields() query.FieldSpec { return fieldSpec }

// SortValue extracts the sort-key value behind a storage path. Tasks without
// a due date sort as the zero time.
func SortValue(t *Task, path string) any {
	switch path {
	case PathUpdatedAt:
		return t.UpdatedAt
	case PathDueDate:
		if t.DueDate != nil {
			return *t.DueDate
		}
		return time.Time{}
	case PathPriority:
		return t.Priority
	case PathTitle:
		return t.Title
	default:
		return t.CreatedAt
	}
}

// FieldValue exposes filterable fields for in-process matching.
func FieldValue(t *Task, path string) string {
	switch path {
	case PathTitle:
		return t.Title
	case PathDescription:
		return t.Description
	case PathStatus:
		return t.Status
	case PathPriority:
		return strconv.Itoa(t.Priority)
	default:
		return ""
	}
}
