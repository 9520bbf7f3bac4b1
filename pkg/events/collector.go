package events

import "slices"

// EventCollector buffers the events an aggregate raises until the use case
// that owns it publishes them. The zero value is ready to use.
type EventCollector struct {
	pending []DomainEvent
}

func (c *EventCollector) Record(e DomainEvent) {
	c.pending = append(c.pending, e)
}

// Events returns a copy of the pending events. Callers may retain it.
func (c *EventCollector) Events() []DomainEvent {
	return slices.Clone(c.pending)
}

// ClearEvents hands over the pending events and resets the buffer.
// It returns nil when nothing was recorded.
func (c *EventCollector) ClearEvents() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
