package events

import "time"

// DomainEvent is a fact recorded by an aggregate and published via the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent provides the common envelope fields.
type BaseEvent struct {
	Name      string    `json:"-"`
	Aggregate string    `json:"-"`
	Time      time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventName() string    { return e.Name }
func (e BaseEvent) AggregateID() string  { return e.Aggregate }
func (e BaseEvent) OccurredAt() time.Time { return e.Time }

// NewBase stamps an event envelope with the current UTC time.
func NewBase(name, aggregate string) BaseEvent {
	return BaseEvent{Name: name, Aggregate: aggregate, Time: time.Now().UTC()}
}
