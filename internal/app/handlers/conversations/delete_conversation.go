package conversations

import (
	"context"
	"log/slog"

	"teamdesk/internal/app/commands"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
)

const deleteConversationKey = "conversations.delete"

// DeleteConversationCommand tears down a thread. Only the owner may delete;
// the repository removes participant rows before the conversation itself.
type DeleteConversationCommand struct {
	CallerID       string
	ConversationID string
}

func (c DeleteConversationCommand) Key() string { return deleteConversationKey }

type DeleteConversationResult struct {
	Deleted bool `json:"deleted"`
}

type DeleteConversationHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *DeleteConversationHandler) Handle(ctx context.Context, cmd DeleteConversationCommand) (*DeleteConversationResult, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
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
	if conv.OwnerID != cmd.CallerID {
		return nil, apperr.Forbidden("only the owner may delete a conversation")
	}
	if err := repo.Delete(ctx, conv.ID); err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domainconversation.NewConversationDeleted(conv.ID)); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("conversation deleted", "conversation_id", conv.ID)
	}
	return &DeleteConversationResult{Deleted: true}, nil
}

var _ commands.Handler[DeleteConversationCommand, *DeleteConversationResult] = (*DeleteConversationHandler)(nil)
