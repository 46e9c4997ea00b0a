package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/middleware"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// OrganizationHandler handles organization and membership HTTP requests
type OrganizationHandler struct {
	organizationService *service.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(organizationService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: organizationService}
}

// CreateOrganizationRequest represents the create organization request body
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// InviteMemberRequest represents the invite member request body
type InviteMemberRequest struct {
	Email string `json:"email"`
}

// UpdateMemberRoleRequest represents the update member role request body
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// CreateOrganization godoc
// @Summary Create an organization
// @Description Create an organization with the caller as owner and seed default categories
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrganizationRequest true "Organization creation request"
// @Success 201 {object} domain.Organization
// @Failure 400 {object} ProblemDetails
// @Router /organizations [post]
func (h *OrganizationHandler) CreateOrganization(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	organization, err := h.organizationService.CreateOrganization(c.Request().Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create organization")
		return NewInternalError(c, "Failed to create organization")
	}

	log.Info().
		Str("organization_id", organization.ID.String()).
		Str("owner_id", userID.String()).
		Msg("Organization created")

	return c.JSON(http.StatusCreated, organization)
}

// GetOrganizations godoc
// @Summary List the caller's organizations
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Organization
// @Router /organizations [get]
func (h *OrganizationHandler) GetOrganizations(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizations, err := h.organizationService.GetOrganizations(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list organizations")
		return NewInternalError(c, "Failed to list organizations")
	}

	return c.JSON(http.StatusOK, organizations)
}

// GetOrganization godoc
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Success 200 {object} domain.Organization
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId} [get]
func (h *OrganizationHandler) GetOrganization(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	organization, err := h.organizationService.GetOrganization(c.Request().Context(), organizationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			return NewNotFoundError(c, "Organization not found")
		case errors.Is(err, domain.ErrNotAMember):
			return NewForbiddenError(c, "Not a member of this organization")
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to get organization")
		return NewInternalError(c, "Failed to get organization")
	}

	return c.JSON(http.StatusOK, organization)
}

// UpdateOrganization godoc
// @Summary Rename an organization
// @Description Rename an organization; owner only
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body CreateOrganizationRequest true "Rename request"
// @Success 200 {object} domain.Organization
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId} [put]
func (h *OrganizationHandler) UpdateOrganization(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	var req CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	organization, err := h.organizationService.UpdateOrganization(c.Request().Context(), organizationID, userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			return NewNotFoundError(c, "Organization not found")
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAMember):
			return NewForbiddenError(c, "Only owners can update the organization")
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to update organization")
		return NewInternalError(c, "Failed to update organization")
	}

	return c.JSON(http.StatusOK, organization)
}

// DeleteOrganization godoc
// @Summary Delete an organization
// @Description Delete an organization and everything in it; owner only
// @Tags organizations
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId} [delete]
func (h *OrganizationHandler) DeleteOrganization(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	if err := h.organizationService.DeleteOrganization(c.Request().Context(), organizationID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			return NewNotFoundError(c, "Organization not found")
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAMember):
			return NewForbiddenError(c, "Only owners can delete the organization")
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to delete organization")
		return NewInternalError(c, "Failed to delete organization")
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("user_id", userID.String()).
		Msg("Organization deleted")

	return c.NoContent(http.StatusNoContent)
}

// GetMembers godoc
// @Summary List organization members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Success 200 {array} domain.Member
// @Failure 403 {object} ProblemDetails
// @Router /organizations/{orgId}/members [get]
func (h *OrganizationHandler) GetMembers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	members, err := h.organizationService.GetMembers(c.Request().Context(), organizationID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotAMember) {
			return NewForbiddenError(c, "Not a member of this organization")
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to list members")
		return NewInternalError(c, "Failed to list members")
	}

	return c.JSON(http.StatusOK, members)
}

// InviteMember godoc
// @Summary Invite a member by email
// @Description Add an existing user to the organization; owner only
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body InviteMemberRequest true "Invitation request"
// @Success 201 {object} domain.Member
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/members [post]
func (h *OrganizationHandler) InviteMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	var req InviteMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.organizationService.InviteMember(c.Request().Context(), organizationID, userID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAMember):
			return NewForbiddenError(c, "Only owners can invite members")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "No user with this email")
		case errors.Is(err, domain.ErrAlreadyExists):
			return NewConflictError(c, "User is already a member")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "email", Message: "Email is required"},
			})
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to invite member")
		return NewInternalError(c, "Failed to invite member")
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("member_id", member.UserID.String()).
		Msg("Member invited")

	return c.JSON(http.StatusCreated, member)
}

// UpdateMemberRole godoc
// @Summary Change a member's role
// @Description Change a member's role; owner only, the last owner cannot be demoted
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param userId path string true "Member user ID"
// @Param request body UpdateMemberRoleRequest true "Role update request"
// @Success 200 {object} domain.Member
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /organizations/{orgId}/members/{userId} [put]
func (h *OrganizationHandler) UpdateMemberRole(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return nil
	}

	var req UpdateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.organizationService.UpdateMemberRole(c.Request().Context(), organizationID, userID, targetID, domain.MemberRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAMember):
			return NewForbiddenError(c, "Only owners can change member roles")
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "Member not found")
		case errors.Is(err, domain.ErrLastOwner):
			return NewConflictError(c, "Organization must keep at least one owner")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "role", Message: "Must be one of: owner, member"},
			})
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to update member role")
		return NewInternalError(c, "Failed to update member role")
	}

	return c.JSON(http.StatusOK, member)
}

// RemoveMember godoc
// @Summary Remove a member
// @Description Remove a member; owners can remove anyone, members can only leave
// @Tags members
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param userId path string true "Member user ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /organizations/{orgId}/members/{userId} [delete]
func (h *OrganizationHandler) RemoveMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	organizationID, ok := parseIDParam(c, "orgId")
	if !ok {
		return nil
	}

	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return nil
	}

	if err := h.organizationService.RemoveMember(c.Request().Context(), organizationID, userID, targetID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAMember):
			return NewForbiddenError(c, "Only owners can remove other members")
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "Member not found")
		case errors.Is(err, domain.ErrLastOwner):
			return NewConflictError(c, "Organization must keep at least one owner")
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to remove member")
		return NewInternalError(c, "Failed to remove member")
	}

	return c.NoContent(http.StatusNoContent)
}
