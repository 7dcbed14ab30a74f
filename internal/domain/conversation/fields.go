package conversation

import "teamdesk/internal/domain/shared/query"

// Storage paths for conversation documents.
const (
	PathName           = "name"
	PathIsGroupChat    = "is_group_chat"
	PathCategory       = "category"
	PathParticipantIDs = "participant_ids"
	PathPairKey        = "pair_key"
	PathCreatedAt      = "created_at"
	PathUpdatedAt      = "updated_at"
)

var fieldSpec = query.FieldSpec{
	SearchPaths: []string{PathName},
	Filters: map[string]query.FilterField{
		"category":    {Path: PathCategory, Match: query.MatchExact},
		"isGroupChat": {Path: PathIsGroupChat, Match: query.MatchExact, Kind: query.ValueBool},
		"name":        {Path: PathName, Match: query.MatchSubstring},
	},
	Sorts: map[string]query.SortField{
		"updated_at": {Path: PathUpdatedAt, Kind: query.ValueTime},
		"created_at": {Path: PathCreatedAt, Kind: query.ValueTime},
		"name":       {Path: PathName, Kind: query.ValueString},
	},
	DefaultSortBy: "updated_at",
}

// Fields returns the conversation filter/sort specification. Conversations
// surface most recently active first by default.
func Fields() query.FieldSpec { return fieldSpec }

// SortValue extracts the sort-key value behind a storage path.
func SortValue(c *Conversation, path string) any {
	switch path {
	case PathCreatedAt:
		return c.CreatedAt
	case PathName:
		return c.Name
	default:
		return c.UpdatedAt
	}
}

// FieldValue exposes filterable fields for in-process matching.
func FieldValue(c *Conversation, path string) string {
	switch path {
	case PathName:
		return c.Name
	case PathCategory:
		return c.Category
	case PathIsGroupChat:
		if c.IsGroupChat {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
