package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// UserKey is the context key for the resolved application user
	UserKey contextKey = "user"
)

// UserResolver resolves the application user for an Auth0 subject, creating
// the row on first login
type UserResolver interface {
	CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name, pictureURL *string) (*domain.User, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator    *validator.Validator
	userResolver UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domain, audience string, userResolver UserResolver) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator:    jwtValidator,
		userResolver: userResolver,
	}, nil
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the application user
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			token := parts[1]

			claims, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			auth0ID := validatedClaims.RegisteredClaims.Subject

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, auth0ID)

			if m.userResolver != nil {
				var email string
				var name, picture *string
				if custom, ok := validatedClaims.CustomClaims.(*CustomClaims); ok {
					email = custom.Email
					if custom.Name != "" {
						name = &custom.Name
					}
					if custom.Picture != "" {
						picture = &custom.Picture
					}
				}

				user, err := m.userResolver.CreateOrGetByAuth0ID(ctx, auth0ID, email, name, picture)
				if err != nil {
					log.Debug().Err(err).Str("auth0_id", auth0ID).Msg("User resolution failed")
					return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
				}
				ctx = context.WithValue(ctx, UserKey, user)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ValidateRawToken validates a bare JWT and resolves the application user.
// Used for transports that cannot carry an Authorization header, such as
// websocket upgrades.
func (m *AuthMiddleware) ValidateRawToken(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}

	if m.userResolver == nil {
		return uuid.Nil, errors.New("user resolver not configured")
	}

	var email string
	var name, picture *string
	if custom, ok := validatedClaims.CustomClaims.(*CustomClaims); ok {
		email = custom.Email
		if custom.Name != "" {
			name = &custom.Name
		}
		if custom.Picture != "" {
			picture = &custom.Picture
		}
	}

	user, err := m.userResolver.CreateOrGetByAuth0ID(ctx, validatedClaims.RegisteredClaims.Subject, email, name, picture)
	if err != nil {
		return uuid.Nil, err
	}

	return user.ID, nil
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetUser extracts the resolved application user from the context
func GetUser(c echo.Context) *domain.User {
	if user, ok := c.Request().Context().Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}

// GetUserID extracts the resolved user's ID, or uuid.Nil when unauthenticated
func GetUserID(c echo.Context) uuid.UUID {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}
