package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

type stubTokenValidator struct {
	userID uuid.UUID
	err    error
}

func (s *stubTokenValidator) ValidateRawToken(_ context.Context, _ string) (uuid.UUID, error) {
	return s.userID, s.err
}

type stubMembershipChecker struct {
	err error
}

func (s *stubMembershipChecker) RequireMembership(_ context.Context, organizationID, userID uuid.UUID) (*domain.Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Member{OrganizationID: organizationID, UserID: userID}, nil
}

func wsContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandleWS_MissingToken(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{}, &stubMembershipChecker{}, nil)

	c, _ := wsContext("/ws?organizationId=" + uuid.New().String())

	err := h.HandleWS(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestHandleWS_InvalidOrganizationID(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{userID: uuid.New()}, &stubMembershipChecker{}, nil)

	c, _ := wsContext("/ws?token=abc&organizationId=not-a-uuid")

	err := h.HandleWS(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", httpErr.Code)
	}
}

func TestHandleWS_InvalidToken(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{err: errors.New("expired")}, &stubMembershipChecker{}, nil)

	c, _ := wsContext(fmt.Sprintf("/ws?token=abc&organizationId=%s", uuid.New()))

	err := h.HandleWS(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestHandleWS_NotAMember(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{userID: uuid.New()},
		&stubMembershipChecker{err: domain.ErrNotAMember}, nil)

	c, _ := wsContext(fmt.Sprintf("/ws?token=abc&organizationId=%s", uuid.New()))

	err := h.HandleWS(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", httpErr.Code)
	}
}

func TestCheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{}, &stubMembershipChecker{},
		[]string{"https://app.example.com"})

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"", true},
		{"https://app.example.com", true},
		{"https://evil.example.com", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := h.checkOrigin(req); got != tt.allowed {
			t.Errorf("checkOrigin(%q) = %v, expected %v", tt.origin, got, tt.allowed)
		}
	}
}
