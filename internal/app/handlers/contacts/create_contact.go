package contacts

import (
	"context"
	"strings"
	"time"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
)

const createContactKey = "contacts.create"

// CreateContactCommand provisions the caller's directory entry. The contact
// id is the gateway identity; a caller cannot create entries for others.
type CreateContactCommand struct {
	CallerID    string
	Username    string
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
	Phone       string
	Role        string
	Department  string
	Rank        string
	Position    string
	Company     string
	AvatarURL   string
	DateOfBirth string
	Locale      string
	Timezone    string
}

func (c CreateContactCommand) Key() string { return createContactKey }

type CreateContactHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder

	// AvatarBase derives an avatar URL for contacts that register without
	// one; empty leaves the field unset.
	AvatarBase string
}

func (h *CreateContactHandler) Handle(ctx context.Context, cmd CreateContactCommand) (*dto.Contact, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	username := strings.TrimSpace(cmd.Username)
	email := strings.TrimSpace(cmd.Email)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	repo := unit.Contacts()

	if taken, err := repo.UsernameTaken(ctx, username, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("username already in use")
	}
	if taken, err := repo.EmailTaken(ctx, email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("email already in use")
	}
	if phone := strings.TrimSpace(cmd.Phone); phone != "" {
		if taken, err := repo.PhoneTaken(ctx, phone, ""); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("phone already in use")
		}
	}

	avatarURL := strings.TrimSpace(cmd.AvatarURL)
	if avatarURL == "" && h.AvatarBase != "" {
		avatarURL = strings.TrimRight(h.AvatarBase, "/") + "/" + cmd.CallerID
	}

	now := time.Now().UTC()
	contact := &domaincontact.Contact{
		ID:          domaincontact.ContactID(cmd.CallerID),
		Username:    username,
		FirstName:   strings.TrimSpace(cmd.FirstName),
		LastName:    strings.TrimSpace(cmd.LastName),
		DisplayName: strings.TrimSpace(cmd.DisplayName),
		Email:       email,
		Phone:       strings.TrimSpace(cmd.Phone),
		Role:        valueOrDefault(cmd.Role, domaincontact.DefaultRole),
		Department:  cmd.Department,
		Rank:        cmd.Rank,
		Position:    cmd.Position,
		Company:     cmd.Company,
		AvatarURL:   avatarURL,
		DateOfBirth: cmd.DateOfBirth,
		Locale:      valueOrDefault(cmd.Locale, domaincontact.DefaultLocale),
		Timezone:    valueOrDefault(cmd.Timezone, domaincontact.DefaultTimezone),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaincontact.NewContactCreated(contact.ID, contact.Email)); err != nil {
		return nil, err
	}
	out := dto.MapContact(contact)
	return &out, nil
}

func valueOrDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

var _ commands.Handler[CreateContactCommand, *dto.Contact] = (*CreateContactHandler)(nil)
