package conversation

import "teamdesk/internal/domain/shared/events"

// ConversationCreated is recorded for newly created threads only; private
// chat reuse does not emit it.
type ConversationCreated struct {
	events.BaseEvent
	ConversationID string   `json:"conversation_id"`
	OwnerID        string   `json:"owner_id"`
	IsGroupChat    bool     `json:"is_group_chat"`
	ParticipantIDs []string `json:"participant_ids"`
}

type ConversationUpdated struct {
	events.BaseEvent
	ConversationID string `json:"conversation_id"`
}

type ConversationDeleted struct {
	events.BaseEvent
	ConversationID string `json:"conversation_id"`
}

type ParticipantsAdded struct {
	events.BaseEvent
	ConversationID string   `json:"conversation_id"`
	AddedBy        string   `json:"added_by"`
	ContactIDs     []string `json:"contact_ids"`
}

type ParticipantsRemoved struct {
	events.BaseEvent
	ConversationID string   `json:"conversation_id"`
	RemovedBy      string   `json:"removed_by"`
	ContactIDs     []string `json:"contact_ids"`
}

func NewConversationCreated(c *Conversation) ConversationCreated {
	return ConversationCreated{
		BaseEvent:      events.NewBase("conversation.created", string(c.ID)),
		ConversationID: string(c.ID),
		OwnerID:        c.OwnerID,
		IsGroupChat:    c.IsGroupChat,
		ParticipantIDs: append([]string(nil), c.ParticipantIDs...),
	}
}

func NewConversationUpdated(id ConversationID) ConversationUpdated {
	return ConversationUpdated{BaseEvent: events.NewBase("conversation.updated", string(id)), ConversationID: string(id)}
}

func NewConversationDeleted(id ConversationID) ConversationDeleted {
	return ConversationDeleted{BaseEvent: events.NewBase("conversation.deleted", string(id)), ConversationID: string(id)}
}

func NewParticipantsAdded(id ConversationID, addedBy string, contactIDs []string) ParticipantsAdded {
	return ParticipantsAdded{
		BaseEvent:      events.NewBase("conversation.participants_added", string(id)),
		ConversationID: string(id),
		AddedBy:        addedBy,
		ContactIDs:     append([]string(nil), contactIDs...),
	}
}

func NewParticipantsRemoved(id ConversationID, removedBy string, contactIDs []string) ParticipantsRemoved {
	return ParticipantsRemoved{
		BaseEvent:      events.NewBase("conversation.participants_removed", string(id)),
		ConversationID: string(id),
		RemovedBy:      removedBy,
		ContactIDs:     append([]string(nil), contactIDs...),
	}
}
