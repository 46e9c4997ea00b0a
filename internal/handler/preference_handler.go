package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// PreferenceHandler handles accounting filter preference HTTP requests
type PreferenceHandler struct {
	preferenceService   *service.PreferenceService
	organizationService *service.OrganizationService
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService *service.PreferenceService, organizationService *service.OrganizationService) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService:   preferenceService,
		organizationService: organizationService,
	}
}

// SetFilterRequest represents the set filter preference request body
type SetFilterRequest struct {
	Visibility string `json:"visibility"`
}

// GetFilter godoc
// @Summary Get the caller's accounting visibility filter
// @Description Returns the stored filter, or the default (all) when none is stored
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Success 200 {object} domain.FilterPreference
// @Router /organizations/{orgId}/preferences/accounting-filter [get]
func (h *PreferenceHandler) GetFilter(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	preference, err := h.preferenceService.GetFilter(c.Request().Context(), userID, organizationID)
	if err != nil {
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to get filter preference")
		return NewInternalError(c, "Failed to get filter preference")
	}

	return c.JSON(http.StatusOK, preference)
}

// SetFilter godoc
// @Summary Set the caller's accounting visibility filter
// @Description Stores the filter and notifies the caller's other sessions
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body SetFilterRequest true "Filter preference request"
// @Success 200 {object} domain.FilterPreference
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/preferences/accounting-filter [put]
func (h *PreferenceHandler) SetFilter(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req SetFilterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	preference, err := h.preferenceService.SetFilter(c.Request().Context(), userID, organizationID, domain.Visibility(req.Visibility))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVisibility) {
			return NewValidationError(c, "Invalid visibility", []ValidationError{
				{Field: "visibility", Message: "Must be one of: all, common, personal"},
			})
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to set filter preference")
		return NewInternalError(c, "Failed to set filter preference")
	}

	return c.JSON(http.StatusOK, preference)
}
