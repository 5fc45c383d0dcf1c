package events

import "time"

// Event is the contract for everything put on the external event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

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

// Event type codes published by this service.
const (
	TypeUserRegistered = "USER_REGISTERED"
	TypeNoteCreated    = "NOTE_CREATED"
	TypeFolderDeleted  = "FOLDER_DELETED"
)
