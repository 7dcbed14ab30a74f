package contacts

import (
	"context"
	"strings"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
)

const updateContactKey = "contacts.update"

// UpdateContactCommand merges profile changes into the caller's own entry.
type UpdateContactCommand struct {
	CallerID  string
	ContactID string
	Fields    domaincontact.UpdateFields
}

func (c UpdateContactCommand) Key() string { return updateContactKey }

type UpdateContactHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *UpdateContactHandler) Handle(ctx context.Context, cmd UpdateContactCommand) (*dto.Contact, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	if cmd.CallerID != cmd.ContactID {
		return nil, apperr.Forbidden("contacts may only update their own profile")
	}
	if cmd.Fields.Empty() {
		return nil, apperr.Validation("no fields to update")
	}

	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	repo := unit.Contacts()
	id := domaincontact.ContactID(cmd.ContactID)

	if cmd.Fields.Username != nil {
		username := strings.TrimSpace(*cmd.Fields.Username)
		if username == "" {
			return nil, apperr.Validation("username cannot be empty")
		}
		if taken, err := repo.UsernameTaken(ctx, username, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("username already in use")
		}
		cmd.Fields.Username = &username
	}
	if cmd.Fields.Email != nil {
		email := strings.TrimSpace(*cmd.Fields.Email)
		if email == "" {
			return nil, apperr.Validation("email cannot be empty")
		}
		if taken, err := repo.EmailTaken(ctx, email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("email already in use")
		}
		cmd.Fields.Email = &email
	}
	if cmd.Fields.Phone != nil {
		if phone := strings.TrimSpace(*cmd.Fields.Phone); phone != "" {
			if taken, err := repo.PhoneTaken(ctx, phone, id); err != nil {
				return nil, err
			} else if taken {
				return nil, apperr.Conflict("phone already in use")
			}
		}
	}

	contact, err := repo.Update(ctx, id, cmd.Fields)
	if err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaincontact.NewContactUpdated(id)); err != nil {
		return nil, err
	}
	out := dto.MapContact(contact)
	return &out, nil
}

var _ commands.Handler[UpdateContactCommand, *dto.Contact] = (*UpdateContactHandler)(nil)
