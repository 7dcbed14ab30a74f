package contacts

import (
	"context"
	"log/slog"

	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
)

const listContactsKey = "contacts.list"

// ListContactsQuery pages the contact directory. When IDs is set in Params,
// the lookup bypasses pagination entirely.
type ListContactsQuery struct {
	CallerID string
	Params   query.ListParams
}

func (q ListContactsQuery) Key() string { return listContactsKey }

type ListContactsHandler struct {
	UoWFactory uow.UoWFactory
	Limits     query.Limits
	Logger     *slog.Logger
}

func (h *ListContactsHandler) Handle(ctx context.Context, q ListContactsQuery) (dto.ContactCollection, error) {
	if q.CallerID == "" {
		return dto.ContactCollection{}, apperr.MissingIdentity()
	}
	params, err := q.Params.Normalize(domaincontact.Fields(), h.Limits)
	if err != nil {
		return dto.ContactCollection{}, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ContactCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	page, err := unit.Contacts().List(execCtx, params)
	if err != nil {
		return dto.ContactCollection{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("contacts listed", "caller", q.CallerID, "count", len(page.Items), "has_more", page.HasMore)
	}
	return dto.MapContactPage(page), nil
}

var _ queries.Handler[ListContactsQuery, dto.ContactCollection] = (*ListContactsHandler)(nil)
