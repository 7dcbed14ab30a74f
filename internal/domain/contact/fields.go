package contact

import "teamdesk/internal/domain/shared/query"

// Storage paths for contact documents.
const (
	PathUsername      = "username"
	PathFirstName     = "first_name"
	PathLastName      = "last_name"
	PathDisplayName   = "display_name"
	PathEmail         = "email"
	PathPhone         = "phone"
	PathIsOnline      = "is_online"
	PathStatusMessage = "status_message"
	PathRole          = "role"
	PathDepartment    = "department"
	PathRank          = "rank"
	PathPosition      = "position"
	PathCompany       = "company"
	PathLocale        = "locale"
	PathTimezone      = "timezone"
	PathCreatedAt     = "created_at"
	PathUpdatedAt     = "updated_at"
)

var fieldSpec = query.FieldSpec{
	SearchPaths: []string{
		PathUsername, PathFirstName, PathLastName, PathDisplayName,
		PathEmail, PathPhone, PathStatusMessage, PathDepartment,
		PathRank, PathPosition, PathCompany,
	},
	Filters: map[string]query.FilterField{
		"role":          {Path: PathRole, Match: query.MatchExact},
		"isOnline":      {Path: PathIsOnline, Match: query.MatchExact, Kind: query.ValueBool},
		"locale":        {Path: PathLocale, Match: query.MatchExact},
		"timezone":      {Path: PathTimezone, Match: query.MatchExact},
		"username":      {Path: PathUsername, Match: query.MatchSubstring},
		"email":         {Path: PathEmail, Match: query.MatchSubstring},
		"phone":         {Path: PathPhone, Match: query.MatchSubstring},
		"firstName":     {Path: PathFirstName, Match: query.MatchSubstring},
		"lastName":      {Path: PathLastName, Match: query.MatchSubstring},
		"displayName":   {Path: PathDisplayName, Match: query.MatchSubstring},
		"statusMessage": {Path: PathStatusMessage, Match: query.MatchSubstring},
		"department":    {Path: PathDepartment, Match: query.MatchSubstring},
		"rank":          {Path: PathRank, Match: query.MatchSubstring},
		"position":      {Path: PathPosition, Match: query.MatchSubstring},
		"company":       {Path: PathCompany, Match: query.MatchSubstring},
	},
	Sorts: map[string]query.SortField{
		"created_at": {Path: PathCreatedAt, Kind: query.ValueTime},
		"updated_at": {Path: PathUpdatedAt, Kind: query.ValueTime},
		"username":   {Path: PathUsername, Kind: query.ValueString},
		"firstName":  {Path: PathFirstName, Kind: query.ValueString},
		"lastName":   {Path: PathLastName, Kind: query.ValueString},
		"email":      {Path: PathEmail, Kind: query.ValueString},
		"role":       {Path: PathRole, Kind: query.ValueString},
		"department": {Path: PathDepartment, Kind: query.ValueString},
		"company":    {Path: PathCompany, Kind: query.ValueString},
	},
	DefaultSortBy: "created_at",
}

// Fields returns the contact filter/sort specification.
func Fields() query.FieldSpec { return fieldSpec }

// SortValue extracts the sort-key value behind a storage path, used to mint
// the next page cursor.
func SortValue(c *Contact, path string) any {
	switch path {
	case PathUpdatedAt:
		return c.UpdatedAt
	case PathUsername:
		return c.Username
	case PathFirstName:
		return c.FirstName
	case PathLastName:
		return c.LastName
	case PathEmail:
		return c.Email
	case PathRole:
		return c.Role
	case PathDepartment:
		return c.Department
	case PathCompany:
		return c.Company
	default:
		return c.CreatedAt
	}
}

// FieldValue exposes string/bool fields for in-process filtering.
func FieldValue(c *Contact, path string) string {
	switch path {
	case PathUsername:
		return c.Username
	case PathFirstName:
		return c.FirstName
	case PathLastName:
		return c.LastName
	case PathDisplayName:
		return c.DisplayName
	case PathEmail:
		return c.Email
	case PathPhone:
		return c.Phone
	case PathIsOnline:
		if c.IsOnline {
			return "true"
		}
		return "false"
	case PathStatusMessage:
		return c.StatusMessage
	case PathRole:
		return c.Role
	case PathDepartment:
		return c.Department
	case PathRank:
		return c.Rank
	case PathPosition:
		return c.Position
	case PathCompany:
		return c.Company
	case PathLocale:
		return c.Locale
	case PathTimezone:
		return c.Timezone
	default:
		return ""
	}
}
