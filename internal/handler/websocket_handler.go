package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// TokenValidator validates a raw JWT and resolves the application user
type TokenValidator interface {
	ValidateRawToken(ctx context.Context, token string) (userID uuid.UUID, err error)
}

// MembershipChecker verifies that a user belongs to an organization
type MembershipChecker interface {
	RequireMembership(ctx context.Context, organizationID, userID uuid.UUID) (*domain.Member, error)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	validator      TokenValidator
	memberships    MembershipChecker
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, validator TokenValidator, memberships MembershipChecker, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		validator:      validator,
		memberships:    memberships,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Same-origin or non-browser clients
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	organizationID, err := uuid.Parse(c.QueryParam("organizationId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organizationId")
	}

	userID, err := h.validator.ValidateRawToken(c.Request().Context(), token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	if _, err := h.memberships.RequireMembership(c.Request().Context(), organizationID, userID); err != nil {
		log.Debug().
			Err(err).
			Str("organization_id", organizationID.String()).
			Str("user_id", userID.String()).
			Msg("WebSocket connection rejected: not a member")
		return echo.NewHTTPError(http.StatusForbidden, "not a member of this organization")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, organizationID, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
