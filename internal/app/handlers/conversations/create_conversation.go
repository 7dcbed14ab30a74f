package conversations

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
)

const createConversationKey = "conversations.create"

// CreateConversationCommand opens a thread between the caller and the
// invited contacts. More than one invitee makes a group chat; exactly one
// makes a private chat, which is deduplicated per unordered pair. No
// invitees makes a solo thread holding only the owner.
type CreateConversationCommand struct {
	CallerID     string
	Name         string
	ContactIDs   []string
	Category     string
	AvatarFileID string
}

func (c CreateConversationCommand) Key() string { return createConversationKey }

type CreateConversationResult struct {
	Conversation dto.Conversation `json:"conversation"`
	// Created is false when an existing private chat was reused.
	Created bool `json:"created"`
}

type CreateConversationHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *CreateConversationHandler) Handle(ctx context.Context, cmd CreateConversationCommand) (*CreateConversationResult, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	invited := domainconversation.DedupeParticipants(cmd.CallerID, cmd.ContactIDs)

	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	repo := unit.Conversations()

	isGroup := len(invited) > 1
	if len(invited) == 1 {
		pairKey := domainconversation.PairKey(cmd.CallerID, invited[0])
		existing, err := repo.FindPrivate(ctx, pairKey)
		if err == nil {
			return h.reuse(ctx, repo, existing)
		}
		if !apperr.IsKind(err, apperr.KindNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	conv := &domainconversation.Conversation{
		ID:             domainconversation.ConversationID(uuid.NewString()),
		Name:           strings.TrimSpace(cmd.Name),
		IsGroupChat:    isGroup,
		OwnerID:        cmd.CallerID,
		AvatarFileID:   cmd.AvatarFileID,
		Category:       strings.TrimSpace(cmd.Category),
		ParticipantIDs: append([]string{cmd.CallerID}, invited...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if len(invited) == 1 {
		conv.PairKey = domainconversation.PairKey(cmd.CallerID, invited[0])
	}

	participants := make([]*domainconversation.Participant, 0, len(invited)+1)
	participants = append(participants, &domainconversation.Participant{
		ConversationID: conv.ID,
		ContactID:      cmd.CallerID,
		Role:           domainconversation.RoleOwner,
		JoinedAt:       now,
	})
	for _, contactID := range invited {
		invitedAt := now
		participants = append(participants, &domainconversation.Participant{
			ConversationID: conv.ID,
			ContactID:      contactID,
			Role:           domainconversation.RoleMember,
			JoinedAt:       now,
			InvitedBy:      cmd.CallerID,
			InvitedAt:      &invitedAt,
		})
	}

	if err := repo.Insert(ctx, conv, participants); err != nil {
		// A concurrent create for the same pair lost the index race; the
		// surviving conversation is the one to hand back.
		if conv.PairKey != "" && apperr.IsKind(err, apperr.KindConflict) {
			existing, findErr := repo.FindPrivate(ctx, conv.PairKey)
			if findErr != nil {
				return nil, err
			}
			return h.reuse(ctx, repo, existing)
		}
		return nil, err
	}

	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domainconversation.NewConversationCreated(conv)); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("conversation created", "conversation_id", conv.ID, "group", isGroup, "participants", len(participants))
	}
	return &CreateConversationResult{
		Conversation: dto.MapConversationWithParticipants(conv, participants),
		Created:      true,
	}, nil
}

func (h *CreateConversationHandler) reuse(ctx context.Context, repo domainconversation.Repository, conv *domainconversation.Conversation) (*CreateConversationResult, error) {
	parts, err := repo.Participants(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &CreateConversationResult{
		Conversation: dto.MapConversationWithParticipants(conv, parts),
		Created:      false,
	}, nil
}

var _ commands.Handler[CreateConversationCommand, *CreateConversationResult] = (*CreateConversationHandler)(nil)
