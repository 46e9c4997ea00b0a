package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// EventService handles calendar event business logic
type EventService struct {
	eventRepo      domain.EventRepository
	eventPublisher websocket.EventPublisher
}

// NewEventService creates a new EventService
func NewEventService(eventRepo domain.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *EventService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *EventService) publishEvent(organizationID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, event)
	}
}

// CreateEventInput holds the input for creating or updating a calendar event
type CreateEventInput struct {
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
	AllDay   bool
	Location *string
	Color    *string
}

func validateEventInput(input *CreateEventInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return domain.ErrTitleRequired
	}
	if len(input.Title) > domain.MaxTitleLength {
		return domain.ErrNameTooLong
	}
	if input.EndsAt.Before(input.StartsAt) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// CreateEvent creates a calendar event
func (s *EventService) CreateEvent(ctx context.Context, organizationID, userID uuid.UUID, input CreateEventInput) (*domain.Event, error) {
	if err := validateEventInput(&input); err != nil {
		return nil, err
	}

	created, err := s.eventRepo.Create(ctx, &domain.Event{
		OrganizationID: organizationID,
		UserID:         userID,
		Title:          input.Title,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		AllDay:         input.AllDay,
		Location:       input.Location,
		Color:          input.Color,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeCalendar, created))
	return created, nil
}

// GetEvents lists the events overlapping a time window
func (s *EventService) GetEvents(ctx context.Context, organizationID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.eventRepo.GetByRange(ctx, organizationID, from, to)
}

// GetEventByID retrieves one event
func (s *EventService) GetEventByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, organizationID, id)
}

// UpdateEvent updates a calendar event
func (s *EventService) UpdateEvent(ctx context.Context, organizationID, id uuid.UUID, input CreateEventInput) (*domain.Event, error) {
	if err := validateEventInput(&input); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.Update(ctx, organizationID, id, &domain.UpdateEventData{
		Title:    input.Title,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		AllDay:   input.AllDay,
		Location: input.Location,
		Color:    input.Color,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeCalendar, updated))
	return updated, nil
}

// DeleteEvent removes a calendar event
func (s *EventService) DeleteEvent(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.eventRepo.Delete(ctx, organizationID, id); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeCalendar, map[string]uuid.UUID{"id": id}))
	return nil
}
