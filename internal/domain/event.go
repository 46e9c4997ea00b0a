package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	AllDay         bool      `json:"allDay"`
	Location       *string   `json:"location,omitempty"`
	Color          *string   `json:"color,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type UpdateEventData struct {
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
	AllDay   bool
	Location *string
	Color    *string
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Event, error)
	GetByRange(ctx context.Context, organizationID uuid.UUID, from, to time.Time) ([]*Event, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, data *UpdateEventData) (*Event, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}
