package conversations

import (
	"context"

	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
)

const listConversationsKey = "conversations.list"

// ListConversationsQuery pages the caller's conversations, most recently
// active first unless the caller picks another sort.
type ListConversationsQuery struct {
	CallerID string
	Params   query.ListParams
}

func (q ListConversationsQuery) Key() string { return listConversationsKey }

type ListConversationsHandler struct {
	UoWFactory uow.UoWFactory
	Limits     query.Limits
}

func (h *ListConversationsHandler) Handle(ctx context.Context, q ListConversationsQuery) (dto.ConversationCollection, error) {
	if q.CallerID == "" {
		return dto.ConversationCollection{}, apperr.MissingIdentity()
	}
	params, err := q.Params.Normalize(domainconversation.Fields(), h.Limits)
	if err != nil {
		return dto.ConversationCollection{}, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ConversationCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	page, err := unit.Conversations().ListForContact(execCtx, q.CallerID, params)
	if err != nil {
		return dto.ConversationCollection{}, err
	}
	return dto.MapConversationPage(page), nil
}

var _ queries.Handler[ListConversationsQuery, dto.ConversationCollection] = (*ListConversationsHandler)(nil)
