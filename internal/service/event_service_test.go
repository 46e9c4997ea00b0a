package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/testutil"
)

func TestCreateEvent_Success(t *testing.T) {
	svc := NewEventService(testutil.NewMockEventRepository())
	ctx := context.Background()

	orgID := uuid.New()
	starts := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	event, err := svc.CreateEvent(ctx, orgID, uuid.New(), CreateEventInput{
		Title:    "Rendez-vous banque",
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if event.Title != "Rendez-vous banque" {
		t.Errorf("Expected title, got %s", event.Title)
	}
}

func TestCreateEvent_EndBeforeStart(t *testing.T) {
	svc := NewEventService(testutil.NewMockEventRepository())

	starts := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	_, err := svc.CreateEvent(context.Background(), uuid.New(), uuid.New(), CreateEventInput{
		Title:    "Impossible",
		StartsAt: starts,
		EndsAt:   starts.Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
}

func TestGetEvents_InvalidWindow(t *testing.T) {
	svc := NewEventService(testutil.NewMockEventRepository())

	now := time.Now()
	_, err := svc.GetEvents(context.Background(), uuid.New(), now, now.Add(-time.Hour))
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
}

func TestGetEvents_ReturnsOverlapping(t *testing.T) {
	eventRepo := testutil.NewMockEventRepository()
	svc := NewEventService(eventRepo)
	ctx := context.Background()

	orgID := uuid.New()
	userID := uuid.New()
	monday := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.CreateEvent(ctx, orgID, userID, CreateEventInput{
		Title:    "Dans la fenêtre",
		StartsAt: monday.Add(10 * time.Hour),
		EndsAt:   monday.Add(11 * time.Hour),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.CreateEvent(ctx, orgID, userID, CreateEventInput{
		Title:    "Semaine suivante",
		StartsAt: monday.AddDate(0, 0, 10),
		EndsAt:   monday.AddDate(0, 0, 10).Add(time.Hour),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	events, err := svc.GetEvents(ctx, orgID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event in window, got %d", len(events))
	}
	if events[0].Title != "Dans la fenêtre" {
		t.Errorf("Unexpected event %s", events[0].Title)
	}
}

func TestUpdateEvent(t *testing.T) {
	eventRepo := testutil.NewMockEventRepository()
	svc := NewEventService(eventRepo)
	ctx := context.Background()

	orgID := uuid.New()
	starts := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	event, _ := svc.CreateEvent(ctx, orgID, uuid.New(), CreateEventInput{
		Title:    "Initial",
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
	})

	updated, err := svc.UpdateEvent(ctx, orgID, event.ID, CreateEventInput{
		Title:    "Déplacé",
		StartsAt: starts.Add(24 * time.Hour),
		EndsAt:   starts.Add(25 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Title != "Déplacé" {
		t.Errorf("Expected updated title, got %s", updated.Title)
	}
	if !updated.StartsAt.Equal(starts.Add(24 * time.Hour)) {
		t.Errorf("Expected moved start, got %v", updated.StartsAt)
	}
}
