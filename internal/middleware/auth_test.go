package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

func TestGetAuth0ID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns auth0 id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), Auth0IDKey, "auth0|12345")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "auth0|12345",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			result := GetAuth0ID(c)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetClaims(c)
		if result == nil {
			t.Fatal("Expected claims, got nil")
		}
		if result.RegisteredClaims.Subject != "auth0|test" {
			t.Errorf("Expected subject 'auth0|test', got %q", result.RegisteredClaims.Subject)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if result := GetClaims(c); result != nil {
			t.Errorf("Expected nil, got %v", result)
		}
	})
}

func TestGetUser(t *testing.T) {
	e := echo.New()

	t.Run("returns user when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		user := &domain.User{ID: uuid.New(), Email: "alice@example.com"}
		ctx := context.WithValue(c.Request().Context(), UserKey, user)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetUser(c)
		if result == nil {
			t.Fatal("Expected user, got nil")
		}
		if result.ID != user.ID {
			t.Errorf("Expected user ID %s, got %s", user.ID, result.ID)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if result := GetUser(c); result != nil {
			t.Errorf("Expected nil, got %v", result)
		}
	})
}

func TestGetUserID(t *testing.T) {
	e := echo.New()

	t.Run("returns user id when user present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		user := &domain.User{ID: uuid.New()}
		ctx := context.WithValue(c.Request().Context(), UserKey, user)
		c.SetRequest(c.Request().WithContext(ctx))

		if got := GetUserID(c); got != user.ID {
			t.Errorf("Expected %s, got %s", user.ID, got)
		}
	})

	t.Run("returns nil uuid when unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if got := GetUserID(c); got != uuid.Nil {
			t.Errorf("Expected uuid.Nil, got %s", got)
		}
	})
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	e := echo.New()
	m := &AuthMiddleware{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Authenticate()(func(c echo.Context) error {
		t.Fatal("Handler should not be called")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	e := echo.New()
	m := &AuthMiddleware{}

	tests := []struct {
		name   string
		header string
	}{
		{name: "no scheme", header: "sometoken"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := m.Authenticate()(func(c echo.Context) error {
				t.Fatal("Handler should not be called")
				return nil
			})

			err := handler(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("Expected *echo.HTTPError, got %T", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", httpErr.Code)
			}
		})
	}
}
