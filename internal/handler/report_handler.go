package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService       *service.ReportService
	organizationService *service.OrganizationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, organizationService *service.OrganizationService) *ReportHandler {
	return &ReportHandler{
		reportService:       reportService,
		organizationService: organizationService,
	}
}

// parseReportBase parses the type, year and visibility query parameters
// shared by most report endpoints. Returns ok=false when a validation
// response was already written.
func parseReportBase(c echo.Context) (typ domain.CategoryType, year int, visibility domain.Visibility, ok bool) {
	typ = domain.CategoryType(c.QueryParam("type"))
	if typ != domain.CategoryTypeIncome && typ != domain.CategoryTypeExpense {
		_ = NewValidationError(c, "Invalid type", []ValidationError{
			{Field: "type", Message: "Must be one of: income, expense"},
		})
		return "", 0, "", false
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		_ = NewValidationError(c, "Invalid year", []ValidationError{
			{Field: "year", Message: "Must be an integer"},
		})
		return "", 0, "", false
	}

	visibility = domain.VisibilityAll
	if v := c.QueryParam("visibility"); v != "" {
		visibility = domain.Visibility(v)
	}

	return typ, year, visibility, true
}

// writeReportError maps a report query failure to a problem response
func writeReportError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidVisibility):
		return NewValidationError(c, "Invalid visibility", []ValidationError{
			{Field: "visibility", Message: "Must be one of: all, common, personal"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid query", nil)
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrInvalidDateRange):
		return NewValidationError(c, "Invalid year range", []ValidationError{
			{Field: "toYear", Message: "Must not be before fromYear"},
		})
	}
	log.Error().Err(err).Msg("Failed to build " + what)
	return NewInternalError(c, "Failed to build "+what)
}

// GetRollups godoc
// @Summary Category rollup table
// @Description Per-category and per-sub-category monthly totals for a year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param type query string true "Category type (income or expense)"
// @Param year query int true "Accounting year"
// @Param search query string false "Space-separated search terms (matches any)"
// @Param visibility query string false "Visibility filter" default(all)
// @Success 200 {array} report.CategoryRollup
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/reports/rollups [get]
func (h *ReportHandler) GetRollups(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	typ, year, visibility, ok := parseReportBase(c)
	if !ok {
		return nil
	}

	rollups, err := h.reportService.GetCategoryRollups(c.Request().Context(), organizationID, userID, service.RollupQuery{
		Type:       typ,
		Year:       year,
		Search:     c.QueryParam("search"),
		Visibility: visibility,
	})
	if err != nil {
		return writeReportError(c, err, "rollups")
	}

	return c.JSON(http.StatusOK, rollups)
}

// GetDistribution godoc
// @Summary Category distribution
// @Description Share of each category in the year total, nested or flat
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param type query string true "Category type (income or expense)"
// @Param year query int true "Accounting year"
// @Param allSubCategories query bool false "Flatten sub-categories against the grand total"
// @Param compareYears query bool false "Include the previous year's shares"
// @Param visibility query string false "Visibility filter" default(all)
// @Success 200 {array} report.DistributionNode
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/reports/distribution [get]
func (h *ReportHandler) GetDistribution(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	typ, year, visibility, ok := parseReportBase(c)
	if !ok {
		return nil
	}

	nodes, err := h.reportService.GetDistribution(c.Request().Context(), organizationID, userID, service.DistributionQuery{
		Type:             typ,
		Year:             year,
		AllSubCategories: c.QueryParam("allSubCategories") == "true",
		CompareYears:     c.QueryParam("compareYears") == "true",
		Visibility:       visibility,
	})
	if err != nil {
		return writeReportError(c, err, "distribution")
	}

	return c.JSON(http.StatusOK, nodes)
}

// GetComparison godoc
// @Summary Month comparison
// @Description Compare one month's total against the previous month and a month selection average
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param type query string true "Category type (income or expense)"
// @Param year query int true "Accounting year"
// @Param month query int true "Month (1-12)"
// @Param months query string false "Comma-separated months for the average (defaults to all other months)"
// @Param visibility query string false "Visibility filter" default(all)
// @Success 200 {object} service.ComparisonResult
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/reports/comparison [get]
func (h *ReportHandler) GetComparison(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	typ, year, visibility, ok := parseReportBase(c)
	if !ok {
		return nil
	}

	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be an integer between 1 and 12"},
		})
	}

	var selectedMonths []int
	if monthsStr := c.QueryParam("months"); monthsStr != "" {
		for _, part := range strings.Split(monthsStr, ",") {
			m, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || m < 1 || m > 12 {
				return NewValidationError(c, "Invalid months", []ValidationError{
					{Field: "months", Message: "Must be a comma-separated list of months between 1 and 12"},
				})
			}
			selectedMonths = append(selectedMonths, m)
		}
	}

	result, err := h.reportService.GetComparison(c.Request().Context(), organizationID, userID, service.ComparisonQuery{
		Type:           typ,
		Year:           year,
		Month:          month,
		SelectedMonths: selectedMonths,
		Visibility:     visibility,
	})
	if err != nil {
		return writeReportError(c, err, "comparison")
	}

	return c.JSON(http.StatusOK, result)
}

// GetEvolution godoc
// @Summary Category evolution
// @Description Zero-filled monthly series of one category over a year range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param categoryId query string true "Category ID"
// @Param fromYear query int true "First year"
// @Param toYear query int true "Last year"
// @Param visibility query string false "Visibility filter" default(all)
// @Success 200 {array} report.EvolutionPoint
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/reports/evolution [get]
func (h *ReportHandler) GetEvolution(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	categoryID, err := uuid.Parse(c.QueryParam("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid categoryId", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	fromYear, err := strconv.Atoi(c.QueryParam("fromYear"))
	if err != nil {
		return NewValidationError(c, "Invalid fromYear", []ValidationError{
			{Field: "fromYear", Message: "Must be an integer"},
		})
	}

	toYear, err := strconv.Atoi(c.QueryParam("toYear"))
	if err != nil {
		return NewValidationError(c, "Invalid toYear", []ValidationError{
			{Field: "toYear", Message: "Must be an integer"},
		})
	}

	visibility := domain.VisibilityAll
	if v := c.QueryParam("visibility"); v != "" {
		visibility = domain.Visibility(v)
	}

	points, err := h.reportService.GetCategoryEvolution(c.Request().Context(), organizationID, userID, service.EvolutionQuery{
		CategoryID: categoryID,
		FromYear:   fromYear,
		ToYear:     toYear,
		Visibility: visibility,
	})
	if err != nil {
		return writeReportError(c, err, "evolution")
	}

	return c.JSON(http.StatusOK, points)
}

// GetMonthSummary godoc
// @Summary Month summary
// @Description Income, expense and balance totals for one month
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param year query int true "Accounting year"
// @Param month query int true "Month (1-12)"
// @Param visibility query string false "Visibility filter" default(all)
// @Success 200 {object} report.MonthSummary
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/reports/summary [get]
func (h *ReportHandler) GetMonthSummary(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year", []ValidationError{
			{Field: "year", Message: "Must be an integer"},
		})
	}

	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be an integer between 1 and 12"},
		})
	}

	visibility := domain.VisibilityAll
	if v := c.QueryParam("visibility"); v != "" {
		visibility = domain.Visibility(v)
	}

	summary, err := h.reportService.GetMonthSummary(c.Request().Context(), organizationID, userID, year, month, visibility)
	if err != nil {
		return writeReportError(c, err, "summary")
	}

	return c.JSON(http.StatusOK, summary)
}
