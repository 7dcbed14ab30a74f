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

const removeParticipantsKey = "conversations.participants.remove"

// RemoveParticipantsCommand takes contacts out of a conversation. Contacts
// that are not members, and the caller's own id, are skipped rather than
// rejected. Unlike adds, removal is valid on private chats too.
type RemoveParticipantsCommand struct {
	CallerID       string
	ConversationID string
	ContactIDs     []string
}

func (c RemoveParticipantsCommand) Key() string { return removeParticipantsKey }

type RemoveParticipantsResult struct {
	RemovedIDs   []string `json:"removed_ids"`
	RemovedCount int      `json:"removed_count"`
}

type RemoveParticipantsHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *RemoveParticipantsHandler) Handle(ctx context.Context, cmd RemoveParticipantsCommand) (*RemoveParticipantsResult, error) {
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
	if !conv.HasParticipant(cmd.CallerID) {
		return nil, apperr.Forbidden("requester is not a participant")
	}

	removed := make([]string, 0, len(cmd.ContactIDs))
	for _, contactID := range domainconversation.DedupeParticipants(cmd.CallerID, cmd.ContactIDs) {
		ok, err := repo.RemoveParticipant(ctx, conv.ID, contactID)
		if err != nil {
			return nil, err
		}
		if ok {
			removed = append(removed, contactID)
		}
	}

	if len(removed) > 0 {
		ev := domainconversation.NewParticipantsRemoved(conv.ID, cmd.CallerID, removed)
		if err := outbox.Record(ctx, h.Outbox, h.Encoder, ev); err != nil {
			return nil, err
		}
		if h.Logger != nil {
			h.Logger.Info("participants removed", "conversation_id", conv.ID, "count", len(removed))
		}
	}
	return &RemoveParticipantsResult{RemovedIDs: removed, RemovedCount: len(removed)}, nil
}

var _ commands.Handler[RemoveParticipantsCommand, *RemoveParticipantsResult] = (*RemoveParticipantsHandler)(nil)
