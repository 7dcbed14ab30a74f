package conversations

import (
	"context"
	"log/slog"
	"time"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
)

const addParticipantsKey = "conversations.participants.add"

// AddParticipantsCommand invites contacts into a group chat. Contacts that
// are already members are skipped, not rejected.
type AddParticipantsCommand struct {
	CallerID       string
	ConversationID string
	ContactIDs     []string
}

func (c AddParticipantsCommand) Key() string { return addParticipantsKey }

type AddParticipantsResult struct {
	AddedIDs     []string          `json:"added_ids"`
	Participants []dto.Participant `json:"participants"`
}

type AddParticipantsHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *AddParticipantsHandler) Handle(ctx context.Context, cmd AddParticipantsCommand) (*AddParticipantsResult, error) {
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
	if !conv.IsGroupChat {
		return nil, apperr.InvalidOperation("participants can only be added to group chats")
	}

	now := time.Now().UTC()
	added := make([]string, 0, len(cmd.ContactIDs))
	for _, contactID := range domainconversation.DedupeParticipants("", cmd.ContactIDs) {
		if conv.HasParticipant(contactID) {
			continue
		}
		invitedAt := now
		err := repo.AddParticipant(ctx, &domainconversation.Participant{
			ConversationID: conv.ID,
			ContactID:      contactID,
			Role:           domainconversation.RoleMember,
			JoinedAt:       now,
			InvitedBy:      cmd.CallerID,
			InvitedAt:      &invitedAt,
		})
		if err != nil {
			// Lost a race against a concurrent add of the same contact.
			if apperr.IsKind(err, apperr.KindConflict) {
				continue
			}
			return nil, err
		}
		conv.ParticipantIDs = append(conv.ParticipantIDs, contactID)
		added = append(added, contactID)
	}

	if len(added) > 0 {
		ev := domainconversation.NewParticipantsAdded(conv.ID, cmd.CallerID, added)
		if err := outbox.Record(ctx, h.Outbox, h.Encoder, ev); err != nil {
			return nil, err
		}
		if h.Logger != nil {
			h.Logger.Info("participants added", "conversation_id", conv.ID, "count", len(added))
		}
	}

	parts, err := repo.Participants(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &AddParticipantsResult{AddedIDs: added, Participants: dto.MapParticipants(parts)}, nil
}

var _ commands.Handler[AddParticipantsCommand, *AddParticipantsResult] = (*AddParticipantsHandler)(nil)
