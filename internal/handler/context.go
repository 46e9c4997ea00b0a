package handler

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/middleware"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// requireMembership resolves the organization from the :orgId path parameter
// and verifies the caller is a member. On failure it writes the error
// response and returns ok=false.
func requireMembership(c echo.Context, orgs *service.OrganizationService) (organizationID, userID uuid.UUID, ok bool) {
	userID = middleware.GetUserID(c)
	if userID == uuid.Nil {
		_ = NewUnauthorizedError(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	organizationID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		_ = NewValidationError(c, "Invalid organization ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	if _, err := orgs.RequireMembership(c.Request().Context(), organizationID, userID); err != nil {
		if errors.Is(err, domain.ErrNotAMember) || errors.Is(err, domain.ErrMemberNotFound) {
			_ = NewForbiddenError(c, "Not a member of this organization")
			return uuid.Nil, uuid.Nil, false
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Membership check failed")
		_ = NewInternalError(c, "Failed to verify membership")
		return uuid.Nil, uuid.Nil, false
	}

	return organizationID, userID, true
}

// parseIDParam parses a UUID path parameter. On failure it writes a
// validation error response and returns ok=false.
func parseIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = NewValidationError(c, "Invalid "+name, []ValidationError{
			{Field: name, Message: "Must be a valid UUID"},
		})
		return uuid.Nil, false
	}
	return id, true
}
