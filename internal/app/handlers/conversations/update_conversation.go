package conversations

import (
	"context"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
)

const updateConversationKey = "conversations.update"

// UpdateConversationCommand merges metadata changes into a thread.
type UpdateConversationCommand struct {
	CallerID       string
	ConversationID string
	Fields         domainconversation.UpdateFields
}

func (c UpdateConversationCommand) Key() string { return updateConversationKey }

type UpdateConversationHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *UpdateConversationHandler) Handle(ctx context.Context, cmd UpdateConversationCommand) (*dto.Conversation, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	if cmd.Fields.Empty() {
		return nil, apperr.Validation("no fields to update")
	}
	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	repo := unit.Conversations()

	conv, err := repo.ByID(ctx, domainconversation.ConversationID(cmd.ConversationID))
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(cmd.CallerID) {
		return nil, apperr.Forbidden("requester is not a participant")
	}

	updated, err := repo.Update(ctx, conv.ID, cmd.Fields)
	if err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domainconversation.NewConversationUpdated(conv.ID)); err != nil {
		return nil, err
	}
	out := dto.MapConversation(updated)
	return &out, nil
}

var _ commands.Handler[UpdateConversationCommand, *dto.Conversation] = (*UpdateConversationHandler)(nil)
