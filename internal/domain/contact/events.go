package contact

import "teamdesk/internal/domain/shared/events"

// ContactCreated is recorded when a directory entry is first provisioned.
type ContactCreated struct {
	events.BaseEvent
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
}

// ContactUpdated is recorded on profile changes.
type ContactUpdated struct {
	events.BaseEvent
	ContactID string `json:"contact_id"`
}

// ContactDeleted is recorded when a directory entry is removed.
type ContactDeleted struct {
	events.BaseEvent
	ContactID string `json:"contact_id"`
}

func NewContactCreated(id ContactID, email string) ContactCreated {
	return ContactCreated{BaseEvent: events.NewBase("contact.created", string(id)), ContactID: string(id), Email: email}
}

func NewContactUpdated(id ContactID) ContactUpdated {
	return ContactUpdated{BaseEvent: events.NewBase("contact.updated", string(id)), ContactID: string(id)}
}

func NewContactDeleted(id ContactID) ContactDeleted {
	return ContactDeleted{BaseEvent: events.NewBase("contact.deleted", string(id)), ContactID: string(id)}
}
