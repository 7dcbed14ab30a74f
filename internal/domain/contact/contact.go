package contact

import (
	"context"
	"time"

	"teamdesk/internal/domain/shared/query"
)

// ContactID identifies a directory contact; it equals the identity the
// upstream gateway authenticated.
type ContactID string

const (
	DefaultRole     = "user"
	DefaultLocale   = "en"
	DefaultTimezone = "UTC"
)

// Contact is a directory entry for a person.
type Contact struct {
	ID            ContactID
	Username      string
	FirstName     string
	LastName      string
	DisplayName   string
	Email         string
	Phone         string
	IsOnline      bool
	LastSeenAt    *time.Time
	StatusMessage string
	Role          string
	Department    string
	Rank          string
	Position      string
	Company       string
	AvatarURL     string
	DateOfBirth   string
	Locale        string
	Timezone      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UpdateFields is a partial-merge payload; nil fields are left unchanged.
type UpdateFields struct {
	Username      *string
	FirstName     *string
	LastName      *string
	DisplayName   *string
	Email         *string
	Phone         *string
	IsOnline      *bool
	StatusMessage *string
	Role          *string
	Department    *string
	Rank          *string
	Position      *string
	Company       *string
	AvatarURL     *string
	DateOfBirth   *string
	Locale        *string
	Timezone      *string
}

// Empty reports whether the payload changes nothing.
func (f UpdateFields) Empty() bool {
	return f.Username == nil && f.FirstName == nil && f.LastName == nil &&
		f.DisplayName == nil && f.Email == nil && f.Phone == nil &&
		f.IsOnline == nil && f.StatusMessage == nil && f.Role == nil &&
		f.Department == nil && f.Rank == nil && f.Position == nil &&
		f.Company == nil && f.AvatarURL == nil && f.DateOfBirth == nil &&
		f.Locale == nil && f.Timezone == nil
}

// Repository is the persistence port for contacts.
type Repository interface {
	Create(ctx context.Context, c *Contact) error
	ByID(ctx context.Context, id ContactID) (*Contact, error)
	ByIDs(ctx context.Context, ids []string) ([]*Contact, error)
	List(ctx context.Context, params query.Resolved) (query.Page[*Contact], error)
	Update(ctx context.Context, id ContactID, fields UpdateFields) (*Contact, error)
	Delete(ctx context.Context, id ContactID) error

	// Uniqueness probes; exclude skips the contact being updated.
	EmailTaken(ctx context.Context, email string, exclude ContactID) (bool, error)
	UsernameTaken(ctx context.Context, username string, exclude ContactID) (bool, error)
	PhoneTaken(ctx context.Context, phone string, exclude ContactID) (bool, error)
}
