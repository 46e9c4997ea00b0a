package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// EventHandler handles calendar event HTTP requests
type EventHandler struct {
	eventService        *service.EventService
	organizationService *service.OrganizationService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *service.EventService, organizationService *service.OrganizationService) *EventHandler {
	return &EventHandler{
		eventService:        eventService,
		organizationService: organizationService,
	}
}

// EventRequest represents the create/update event request body
type EventRequest struct {
	Title    string  `json:"title"`
	StartsAt string  `json:"startsAt"`
	EndsAt   string  `json:"endsAt"`
	AllDay   bool    `json:"allDay"`
	Location *string `json:"location,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// parseEventRequest converts the request body into a service input. Returns
// nil when a validation response was already written.
func parseEventRequest(c echo.Context, req *EventRequest) (*service.CreateEventInput, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, NewValidationError(c, "Invalid startsAt", []ValidationError{
			{Field: "startsAt", Message: "Must be an RFC 3339 timestamp"},
		})
	}

	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, NewValidationError(c, "Invalid endsAt", []ValidationError{
			{Field: "endsAt", Message: "Must be an RFC 3339 timestamp"},
		})
	}

	return &service.CreateEventInput{
		Title:    req.Title,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		AllDay:   req.AllDay,
		Location: req.Location,
		Color:    req.Color,
	}, nil
}

// writeEventError maps a calendar event failure to a problem response
func writeEventError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return NewNotFoundError(c, "Event not found")
	case errors.Is(err, domain.ErrTitleRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidDateRange):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "endsAt", Message: "Must not be before startsAt"},
		})
	}
	log.Error().Err(err).Msg("Failed to " + what)
	return NewInternalError(c, "Failed to "+what)
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body EventRequest true "Event creation request"
// @Success 201 {object} domain.Event
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseEventRequest(c, &req)
	if input == nil {
		return err
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), organizationID, userID, *input)
	if err != nil {
		return writeEventError(c, err, "create event")
	}

	return c.JSON(http.StatusCreated, event)
}

// GetEvents godoc
// @Summary List events overlapping a window
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param from query string true "Window start (RFC 3339)"
// @Param to query string true "Window end (RFC 3339)"
// @Success 200 {array} domain.Event
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/events [get]
func (h *EventHandler) GetEvents(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return NewValidationError(c, "Invalid from", []ValidationError{
			{Field: "from", Message: "Must be an RFC 3339 timestamp"},
		})
	}

	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return NewValidationError(c, "Invalid to", []ValidationError{
			{Field: "to", Message: "Must be an RFC 3339 timestamp"},
		})
	}

	events, err := h.eventService.GetEvents(c.Request().Context(), organizationID, from, to)
	if err != nil {
		return writeEventError(c, err, "list events")
	}

	return c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get a calendar event
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	event, err := h.eventService.GetEventByID(c.Request().Context(), organizationID, id)
	if err != nil {
		return writeEventError(c, err, "get event")
	}

	return c.JSON(http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update a calendar event
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Event ID"
// @Param request body EventRequest true "Event update request"
// @Success 200 {object} domain.Event
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseEventRequest(c, &req)
	if input == nil {
		return err
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), organizationID, id, *input)
	if err != nil {
		return writeEventError(c, err, "update event")
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete a calendar event
// @Tags calendar
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), organizationID, id); err != nil {
		return writeEventError(c, err, "delete event")
	}

	return c.NoContent(http.StatusNoContent)
}
