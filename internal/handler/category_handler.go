package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// CategoryHandler handles category and sub-category HTTP requests
type CategoryHandler struct {
	categoryService     *service.CategoryService
	organizationService *service.OrganizationService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService, organizationService *service.OrganizationService) *CategoryHandler {
	return &CategoryHandler{
		categoryService:     categoryService,
		organizationService: organizationService,
	}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RenameRequest represents a rename request body
type RenameRequest struct {
	Name string `json:"name"`
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body CreateCategoryRequest true "Category creation request"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), organizationID, req.Name, domain.CategoryType(req.Type))
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
		case errors.Is(err, domain.ErrInvalidCategoryType):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		case errors.Is(err, domain.ErrAlreadyExists):
			return NewConflictError(c, "A category with this name already exists")
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, category)
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param type query string false "Filter by type (income or expense)"
// @Success 200 {array} domain.Category
// @Router /organizations/{orgId}/categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var typ *domain.CategoryType
	if typeStr := c.QueryParam("type"); typeStr != "" {
		t := domain.CategoryType(typeStr)
		if t != domain.CategoryTypeIncome && t != domain.CategoryTypeExpense {
			return NewValidationError(c, "Invalid type", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		typ = &t
	}

	categories, err := h.categoryService.GetCategories(c.Request().Context(), organizationID, typ)
	if err != nil {
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	return c.JSON(http.StatusOK, categories)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Category ID"
// @Param request body RenameRequest true "Rename request"
// @Success 200 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req RenameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), organizationID, id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		case errors.Is(err, domain.ErrSystemCategory):
			return NewForbiddenError(c, "System categories cannot be modified")
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Str("category_id", id.String()).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Delete a category; fails when transactions still reference it
// @Tags categories
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /organizations/{orgId}/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), organizationID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		case errors.Is(err, domain.ErrSystemCategory):
			return NewForbiddenError(c, "System categories cannot be deleted")
		case errors.Is(err, domain.ErrCategoryInUse):
			return NewConflictError(c, "Category is referenced by transactions")
		}
		log.Error().Err(err).Str("category_id", id.String()).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}

// CanDeleteCategory godoc
// @Summary Check whether a category can be deleted
// @Description Non-mutating probe used to disable the delete action in clients
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Category ID"
// @Success 200 {object} service.CanDeleteResult
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/categories/{id}/can-delete [get]
func (h *CategoryHandler) CanDeleteCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	result, err := h.categoryService.CanDeleteCategory(c.Request().Context(), organizationID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("category_id", id.String()).Msg("Failed to check category deletability")
		return NewInternalError(c, "Failed to check category deletability")
	}

	return c.JSON(http.StatusOK, result)
}

// CreateSubCategory godoc
// @Summary Create a sub-category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Parent category ID"
// @Param request body RenameRequest true "Sub-category creation request"
// @Success 201 {object} domain.SubCategory
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req RenameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	subCategory, err := h.categoryService.CreateSubCategory(c.Request().Context(), organizationID, categoryID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewNotFoundError(c, "Category not found")
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Str("category_id", categoryID.String()).Msg("Failed to create sub-category")
		return NewInternalError(c, "Failed to create sub-category")
	}

	return c.JSON(http.StatusCreated, subCategory)
}

// GetSubCategories godoc
// @Summary List sub-categories of a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Parent category ID"
// @Success 200 {array} domain.SubCategory
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/categories/{id}/subcategories [get]
func (h *CategoryHandler) GetSubCategories(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	subCategories, err := h.categoryService.GetSubCategories(c.Request().Context(), organizationID, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("category_id", categoryID.String()).Msg("Failed to list sub-categories")
		return NewInternalError(c, "Failed to list sub-categories")
	}

	return c.JSON(http.StatusOK, subCategories)
}

// UpdateSubCategory godoc
// @Summary Rename a sub-category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param subId path string true "Sub-category ID"
// @Param request body RenameRequest true "Rename request"
// @Success 200 {object} domain.SubCategory
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/subcategories/{subId} [put]
func (h *CategoryHandler) UpdateSubCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	subID, ok := parseIDParam(c, "subId")
	if !ok {
		return nil
	}

	var req RenameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	subCategory, err := h.categoryService.UpdateSubCategory(c.Request().Context(), organizationID, subID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSubCategoryNotFound):
			return NewNotFoundError(c, "Sub-category not found")
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Str("sub_category_id", subID.String()).Msg("Failed to update sub-category")
		return NewInternalError(c, "Failed to update sub-category")
	}

	return c.JSON(http.StatusOK, subCategory)
}

// DeleteSubCategory godoc
// @Summary Delete a sub-category
// @Tags categories
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param subId path string true "Sub-category ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/subcategories/{subId} [delete]
func (h *CategoryHandler) DeleteSubCategory(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	subID, ok := parseIDParam(c, "subId")
	if !ok {
		return nil
	}

	if err := h.categoryService.DeleteSubCategory(c.Request().Context(), organizationID, subID); err != nil {
		if errors.Is(err, domain.ErrSubCategoryNotFound) {
			return NewNotFoundError(c, "Sub-category not found")
		}
		log.Error().Err(err).Str("sub_category_id", subID.String()).Msg("Failed to delete sub-category")
		return NewInternalError(c, "Failed to delete sub-category")
	}

	return c.NoContent(http.StatusNoContent)
}
