package events

import "time"

// Event is the contract every domain event satisfies before it is handed to
// NATS or the WebSocket hub.
type Event interface {
	// EventType returns the event's code, e.g. "CHAT_COMPLETED" or "chat.turn".
	EventType() string

	// Payload returns the event body as delivered to subscribers.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the ad-hoc implementation services construct inline. Events
// with richer behavior define their own type instead of embedding this one.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
