package contacts

import (
	"context"

	"teamdesk/internal/app/commands"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
)

const deleteContactKey = "contacts.delete"

// DeleteContactCommand removes the caller's own directory entry.
type DeleteContactCommand struct {
	CallerID  string
	ContactID string
}

func (c DeleteContactCommand) Key() string { return deleteContactKey }

type DeleteContactResult struct {
	Deleted bool `json:"deleted"`
}

type DeleteContactHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *DeleteContactHandler) Handle(ctx context.Context, cmd DeleteContactCommand) (*DeleteContactResult, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	if cmd.CallerID != cmd.ContactID {
		return nil, apperr.Forbidden("contacts may only delete their own profile")
	}
	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	id := domaincontact.ContactID(cmd.ContactID)
	if err := unit.Contacts().Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaincontact.NewContactDeleted(id)); err != nil {
		return nil, err
	}
	return &DeleteContactResult{Deleted: true}, nil
}

var _ commands.Handler[DeleteContactCommand, *DeleteContactResult] = (*DeleteContactHandler)(nil)
