package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event the services publish.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields shared by all events. Embed it in a
// concrete event and the JSON encoding includes the envelope inline.
type BaseEvent struct {
	ID            uuid.UUID `json:"event_id"`
	Type          string    `json:"event_type"`
	Aggregate     string    `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
	Timestamp     time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps a fresh ID and the current UTC time.
func NewBaseEvent(eventType, aggregateID, aggregateType string) BaseEvent {
	return BaseEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
		Timestamp:     time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.AggregateKind }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// Publisher publishes domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...DomainEvent) error { return nil }
