package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, map[string]string{"id": "abc"})
	after := time.Now().UTC()

	assert.Equal(t, "transaction.created", event.Type)
	assert.Equal(t, EntityTypeTransaction, event.Entity)
	assert.False(t, event.Timestamp.Before(before))
	assert.False(t, event.Timestamp.After(after))
}

func TestEvent_TypeNames(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		entity    EntityType
		expected  string
	}{
		{"transaction created", EventTypeCreated, EntityTypeTransaction, "transaction.created"},
		{"category updated", EventTypeUpdated, EntityTypeCategory, "category.updated"},
		{"subcategory deleted", EventTypeDeleted, EntityTypeSubCategory, "subcategory.deleted"},
		{"refund created", EventTypeCreated, EntityTypeRefund, "refund.created"},
		{"note updated", EventTypeUpdated, EntityTypeNote, "note.updated"},
		{"task deleted", EventTypeDeleted, EntityTypeTask, "task.deleted"},
		{"calendar event created", EventTypeCreated, EntityTypeCalendar, "calendar_event.created"},
		{"filter changed", EventTypeChanged, EntityTypeFilter, "accounting_filter.changed"},
		{"member deleted", EventTypeDeleted, EntityTypeMember, "member.deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewEvent(tt.eventType, tt.entity, nil)
			assert.Equal(t, tt.expected, event.Type)
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	event := EntityUpdated(EntityTypeTask, map[string]interface{}{
		"id":        "task-1",
		"completed": true,
	})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "task.updated", decoded["type"])
	assert.Equal(t, "task", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "task-1", payload["id"])
	assert.Equal(t, true, payload["completed"])
}

func TestEntityHelpers(t *testing.T) {
	created := EntityCreated(EntityTypeNote, nil)
	assert.Equal(t, "note.created", created.Type)

	updated := EntityUpdated(EntityTypeNote, nil)
	assert.Equal(t, "note.updated", updated.Type)

	deleted := EntityDeleted(EntityTypeNote, nil)
	assert.Equal(t, "note.deleted", deleted.Type)
}

func TestFilterChanged(t *testing.T) {
	event := FilterChanged(map[string]string{"visibility": "common"})
	assert.Equal(t, "accounting_filter.changed", event.Type)
	assert.Equal(t, EntityTypeFilter, event.Entity)
}
