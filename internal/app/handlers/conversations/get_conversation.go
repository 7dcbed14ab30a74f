package conversations

import (
	"context"

	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
)

const getConversationKey = "conversations.get"

// GetConversationQuery fetches one thread with its participant rows. Only
// participants may read a conversation.
type GetConversationQuery struct {
	CallerID       string
	ConversationID string
}

func (q GetConversationQuery) Key() string { return getConversationKey }

type GetConversationHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetConversationHandler) Handle(ctx context.Context, q GetConversationQuery) (dto.Conversation, error) {
	if q.CallerID == "" {
		return dto.Conversation{}, apperr.MissingIdentity()
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Conversation{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	repo := unit.Conversations()
	conv, err := repo.ByID(execCtx, domainconversation.ConversationID(q.ConversationID))
	if err != nil {
		return dto.Conversation{}, err
	}
	if !conv.HasParticipant(q.CallerID) {
		return dto.Conversation{}, apperr.Forbidden("requester is not a participant")
	}
	parts, err := repo.Participants(execCtx, conv.ID)
	if err != nil {
		return dto.Conversation{}, err
	}
	return dto.MapConversationWithParticipants(conv, parts), nil
}

var _ queries.Handler[GetConversationQuery, dto.Conversation] = (*GetConversationHandler)(nil)
