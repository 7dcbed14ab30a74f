package dto

import (
	"time"

	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/query"
)

// Contact is the wire representation of a directory entry.
type Contact struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	DisplayName   string     `json:"display_name,omitempty"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	IsOnline      bool       `json:"is_online"`
	LastSeenAt    *time.Time `json:"last_seen_at,omitempty"`
	StatusMessage string     `json:"status_message,omitempty"`
	Role          string     `json:"role"`
	Department    string     `json:"department,omitempty"`
	Rank          string     `json:"rank,omitempty"`
	Position      string     `json:"position,omitempty"`
	Company       string     `json:"company,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	DateOfBirth   string     `json:"date_of_birth,omitempty"`
	Locale        string     `json:"locale"`
	Timezone      string     `json:"timezone"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func MapContact(c *domaincontact.Contact) Contact {
	return Contact{
		ID:            string(c.ID),
		Username:      c.Username,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		DisplayName:   c.DisplayName,
		Email:         c.Email,
		Phone:         c.Phone,
		IsOnline:      c.IsOnline,
		LastSeenAt:    c.LastSeenAt,
		StatusMessage: c.StatusMessage,
		Role:          c.Role,
		Department:    c.Department,
		Rank:          c.Rank,
		Position:      c.Position,
		Company:       c.Company,
		AvatarURL:     c.AvatarURL,
		DateOfBirth:   c.DateOfBirth,
		Locale:        c.Locale,
		Timezone:      c.Timezone,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ContactCollection is one page of contacts. Total is the item count of
// this page, not of the whole result set.
type ContactCollection struct {
	Items      []Contact `json:"items"`
	Total      int       `json:"total"`
	HasMore    bool      `json:"has_more"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func MapContactPage(page query.Page[*domaincontact.Contact]) ContactCollection {
	items := make([]Contact, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, MapContact(c))
	}
	return ContactCollection{Items: items, Total: page.Total, HasMore: page.HasMore, NextCursor: page.NextCursor}
}
