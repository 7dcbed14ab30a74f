package dto

import (
	"time"

	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/query"
)

// Conversation is the wire representation of a chat thread.
type Conversation struct {
	ID             string        `json:"id"`
	Name           string        `json:"name,omitempty"`
	IsGroupChat    bool          `json:"is_group_chat"`
	OwnerID        string        `json:"owner_id"`
	AvatarFileID   string        `json:"avatar_file_id,omitempty"`
	Category       string        `json:"category,omitempty"`
	LastMessageID  string        `json:"last_message_id,omitempty"`
	ParticipantIDs []string      `json:"participant_ids"`
	Participants   []Participant `json:"participants,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Participant is one membership row.
type Participant struct {
	ContactID         string     `json:"contact_id"`
	Role              string     `json:"role"`
	JoinedAt          time.Time  `json:"joined_at"`
	InvitedBy         string     `json:"invited_by,omitempty"`
	InvitedAt         *time.Time `json:"invited_at,omitempty"`
	Alias             string     `json:"alias,omitempty"`
	UnreadCount       int        `json:"unread_count"`
	LastReadAt        *time.Time `json:"last_read_at,omitempty"`
	LastMessageReadID string     `json:"last_message_read_id,omitempty"`
}

func MapConversation(c *domainconversation.Conversation) Conversation {
	return Conversation{
		ID:             string(c.ID),
		Name:           c.Name,
		IsGroupChat:    c.IsGroupChat,
		OwnerID:        c.OwnerID,
		AvatarFileID:   c.AvatarFileID,
		Category:       c.Category,
		LastMessageID:  c.LastMessageID,
		ParticipantIDs: c.ParticipantIDs,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func MapConversationWithParticipants(c *domainconversation.Conversation, parts []*domainconversation.Participant) Conversation {
	out := MapConversation(c)
	out.Participants = MapParticipants(parts)
	return out
}

func MapParticipant(p *domainconversation.Participant) Participant {
	return Participant{
		ContactID:         p.ContactID,
		Role:              string(p.Role),
		JoinedAt:          p.JoinedAt,
		InvitedBy:         p.InvitedBy,
		InvitedAt:         p.InvitedAt,
		Alias:             p.Alias,
		UnreadCount:       p.UnreadCount,
		LastReadAt:        p.LastReadAt,
		LastMessageReadID: p.LastMessageReadID,
	}
}

func MapParticipants(parts []*domainconversation.Participant) []Participant {
	out := make([]Participant, 0, len(parts))
	for _, p := range parts {
		out = append(out, MapParticipant(p))
	}
	return out
}

// ConversationCollection is one page of conversations. Total is the item
// count of this page, not of the whole result set.
type ConversationCollection struct {
	Items      []Conversation `json:"items"`
	Total      int            `json:"total"`
	HasMore    bool           `json:"has_more"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func MapConversationPage(page query.Page[*domainconversation.Conversation]) ConversationCollection {
	items := make([]Conversation, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, MapConversation(c))
	}
	return ConversationCollection{Items: items, Total: page.Total, HasMore: page.HasMore, NextCursor: page.NextCursor}
}
