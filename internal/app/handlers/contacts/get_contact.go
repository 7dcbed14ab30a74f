package contacts

import (
	"context"

	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
)

const getContactKey = "contacts.get"

// GetContactQuery fetches one directory entry. Any authenticated caller may
// look up any contact.
type GetContactQuery struct {
	CallerID  string
	ContactID string
}

func (q GetContactQuery) Key() string { return getContactKey }

type GetContactHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetContactHandler) Handle(ctx context.Context, q GetContactQuery) (dto.Contact, error) {
	if q.CallerID == "" {
		return dto.Contact{}, apperr.MissingIdentity()
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Contact{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	contact, err := unit.Contacts().ByID(execCtx, domaincontact.ContactID(q.ContactID))
	if err != nil {
		return dto.Contact{}, err
	}
	return dto.MapContact(contact), nil
}

var _ queries.Handler[GetContactQuery, dto.Contact] = (*GetContactHandler)(nil)
