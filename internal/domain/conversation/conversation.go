package conversation

import (
	"context"
	"sort"
	"time"

	"teamdesk/internal/domain/shared/query"
)

// ConversationID identifies a conversation.
type ConversationID string

// Role is a participant's role within a conversation. Roles only transition
// none→member/owner on add and member/owner→none on remove; there is no
// dedicated escalation operation.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Conversation is a chat thread. A thread created with more than one invited
// participant is a group chat; a thread with exactly two participants is a
// private chat, unique per unordered participant pair.
type Conversation struct {
	ID            ConversationID
	Name          string
	IsGroupChat   bool
	OwnerID       string
	AvatarFileID  string
	Category      string
	LastMessageID string
	// ParticipantIDs mirrors the participant rows for scope filtering.
	ParticipantIDs []string
	// PairKey is the sorted participant pair for private chats, empty for
	// group chats. A unique sparse index on it closes the concurrent
	// create race.
	PairKey   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant is one membership row.
type Participant struct {
	ConversationID    ConversationID
	ContactID         string
	Role              Role
	JoinedAt          time.Time
	InvitedBy         string
	InvitedAt         *time.Time
	Alias             string
	UnreadCount       int
	LastReadAt        *time.Time
	LastMessageReadID string
}

// UpdateFields is a partial-merge payload for conversation metadata.
type UpdateFields struct {
	Name         *string
	AvatarFileID *string
	Category     *string
}

func (f UpdateFields) Empty() bool {
	return f.Name == nil && f.AvatarFileID == nil && f.Category == nil
}

// PairKey canonicalizes an unordered participant pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// HasParticipant reports membership via the denormalized id set.
func (c *Conversation) HasParticipant(contactID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == contactID {
			return true
		}
	}
	return false
}

// DedupeParticipants trims, deduplicates and drops the requester from an
// invited participant list, preserving order.
func DedupeParticipants(requesterID string, contactIDs []string) []string {
	seen := make(map[string]struct{}, len(contactIDs))
	out := make([]string, 0, len(contactIDs))
	for _, id := range contactIDs {
		if id == "" || id == requesterID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SortParticipants orders rows by join time, then contact id.
func SortParticipants(parts []*Participant) {
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].JoinedAt.Equal(parts[j].JoinedAt) {
			return parts[i].ContactID < parts[j].ContactID
		}
		return parts[i].JoinedAt.Before(parts[j].JoinedAt)
	})
}

// Repository is the persistence port for conversations and their
// participants. Implementations must honor the surrounding unit of work:
// mutations issued within one transaction commit or roll back together.
type Repository interface {
	// Insert stores a conversation with its initial participant rows.
	// A duplicate private-chat pair key yields a Conflict error.
	Insert(ctx context.Context, conv *Conversation, participants []*Participant) error
	ByID(ctx context.Context, id ConversationID) (*Conversation, error)
	Participants(ctx context.Context, id ConversationID) ([]*Participant, error)
	Participant(ctx context.Context, id ConversationID, contactID string) (*Participant, error)

	// FindPrivate locates the non-group conversation for a pair key,
	// returning NotFound when absent.
	FindPrivate(ctx context.Context, pairKey string) (*Conversation, error)

	// ListForContact pages conversations the contact participates in.
	ListForContact(ctx context.Context, contactID string, params query.Resolved) (query.Page[*Conversation], error)
	// ByIDsForContact resolves an id set, restricted to the contact's
	// conversations; unknown ids are silently omitted.
	ByIDsForContact(ctx context.Context, contactID string, ids []string) ([]*Conversation, error)

	AddParticipant(ctx context.Context, p *Participant) error
	RemoveParticipant(ctx context.Context, id ConversationID, contactID string) (bool, error)

	Update(ctx context.Context, id ConversationID, fields UpdateFields) (*Conversation, error)
	// Delete removes participant rows before the conversation row.
	Delete(ctx context.Context, id ConversationID) error
}
