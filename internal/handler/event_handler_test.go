package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

func TestCreateEvent_Success(t *testing.T) {
	f := newFixture()
	h := NewEventHandler(f.eventService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/events",
		`{"title":"Réunion mensuelle","startsAt":"2026-09-03T10:00:00Z","endsAt":"2026-09-03T11:00:00Z","location":"Salle A"}`)

	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var event domain.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &event); err != nil {
		t.Fatalf("Failed to unmarshal event: %v", err)
	}
	if event.Title != "Réunion mensuelle" {
		t.Errorf("Expected title Réunion mensuelle, got %s", event.Title)
	}
	if event.Location == nil || *event.Location != "Salle A" {
		t.Errorf("Expected location Salle A, got %v", event.Location)
	}
}

func TestCreateEvent_EndsBeforeStarts(t *testing.T) {
	f := newFixture()
	h := NewEventHandler(f.eventService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/events",
		`{"title":"Inversé","startsAt":"2026-09-03T11:00:00Z","endsAt":"2026-09-03T10:00:00Z"}`)

	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "endsAt" {
		t.Errorf("Expected an endsAt field error, got %+v", problem.Errors)
	}
}

func TestCreateEvent_InvalidTimestamp(t *testing.T) {
	f := newFixture()
	h := NewEventHandler(f.eventService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/events",
		`{"title":"Mal formé","startsAt":"03/09/2026","endsAt":"2026-09-03T10:00:00Z"}`)

	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetEvents_WindowOverlap(t *testing.T) {
	f := newFixture()
	h := NewEventHandler(f.eventService, f.organizationService)

	seed := func(title string, start, end time.Time) {
		f.eventRepo.AddEvent(&domain.Event{
			ID:             uuid.New(),
			OrganizationID: f.organizationID,
			UserID:         f.userID,
			Title:          title,
			StartsAt:       start,
			EndsAt:         end,
		})
	}
	seed("inside", time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC))
	seed("outside", time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC))

	c, rec := f.request(http.MethodGet,
		"/api/v1/organizations/x/events?from=2026-09-01T00:00:00Z&to=2026-09-30T23:59:59Z", "")

	if err := h.GetEvents(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var events []domain.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("Failed to unmarshal events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event in window, got %d", len(events))
	}
	if events[0].Title != "inside" {
		t.Errorf("Expected event inside, got %s", events[0].Title)
	}
}

func TestGetEvents_MissingWindow(t *testing.T) {
	f := newFixture()
	h := NewEventHandler(f.eventService, f.organizationService)

	c, rec := f.request(http.MethodGet, "/api/v1/organizations/x/events", "")

	if err := h.GetEvents(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteEvent_NotFound(t *testing.T) {
	f := newFixture()
	h := NewEventHandler(f.eventService, f.organizationService)

	c, rec := f.request(http.MethodDelete, "/api/v1/organizations/x/events/x", "")
	addParams(c, []string{"id"}, []string{uuid.New().String()})

	if err := h.DeleteEvent(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
