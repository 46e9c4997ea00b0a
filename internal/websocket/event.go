package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeChanged EventType = "changed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCategory    EntityType = "category"
	EntityTypeSubCategory EntityType = "subcategory"
	EntityTypeRefund      EntityType = "refund"
	EntityTypeNote        EntityType = "note"
	EntityTypeTask        EntityType = "task"
	EntityTypeCalendar    EntityType = "calendar_event"
	EntityTypeFilter      EntityType = "accounting_filter"
	EntityTypeMember      EntityType = "member"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntityCreated creates a "<entity>.created" event
func EntityCreated(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeCreated, entity, payload)
}

// EntityUpdated creates a "<entity>.updated" event
func EntityUpdated(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeUpdated, entity, payload)
}

// EntityDeleted creates a "<entity>.deleted" event
func EntityDeleted(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeDeleted, entity, payload)
}

// FilterChanged creates an accounting_filter.changed event. Sibling clients
// subscribe to it to keep their visibility filter in sync instead of
// re-reading local state.
func FilterChanged(payload interface{}) Event {
	return NewEvent(EventTypeChanged, EntityTypeFilter, payload)
}
