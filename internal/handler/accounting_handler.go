package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// AccountingHandler handles transaction and refund HTTP requests
type AccountingHandler struct {
	accountingService   *service.AccountingService
	organizationService *service.OrganizationService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(accountingService *service.AccountingService, organizationService *service.OrganizationService) *AccountingHandler {
	return &AccountingHandler{
		accountingService:   accountingService,
		organizationService: organizationService,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	CategoryID      string  `json:"categoryId"`
	SubCategoryID   *string `json:"subCategoryId,omitempty"`
	Label           string  `json:"label"`
	Amount          string  `json:"amount"`
	Type            string  `json:"type"`
	AccountingDate  string  `json:"accountingDate"`
	TransactionDate *string `json:"transactionDate,omitempty"`
	IsPersonal      bool    `json:"isPersonal"`
	Notes           *string `json:"notes,omitempty"`
}

// parseTransactionRequest validates and converts the request body into a
// service input. Returns nil when a validation response was already written.
func parseTransactionRequest(c echo.Context, req *TransactionRequest) (*service.CreateTransactionInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	var subCategoryID *uuid.UUID
	if req.SubCategoryID != nil && *req.SubCategoryID != "" {
		id, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			return nil, NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "subCategoryId", Message: "Must be a valid UUID"},
			})
		}
		subCategoryID = &id
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	accountingDate, err := time.Parse("2006-01-02", req.AccountingDate)
	if err != nil {
		return nil, NewValidationError(c, "Invalid accountingDate", []ValidationError{
			{Field: "accountingDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var transactionDate *time.Time
	if req.TransactionDate != nil && *req.TransactionDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.TransactionDate)
		if err != nil {
			return nil, NewValidationError(c, "Invalid transactionDate", []ValidationError{
				{Field: "transactionDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		transactionDate = &parsed
	}

	return &service.CreateTransactionInput{
		CategoryID:      categoryID,
		SubCategoryID:   subCategoryID,
		Label:           req.Label,
		Amount:          amount,
		Type:            domain.CategoryType(req.Type),
		AccountingDate:  accountingDate,
		TransactionDate: transactionDate,
		IsPersonal:      req.IsPersonal,
		Notes:           req.Notes,
	}, nil
}

// transactionValidationField maps a transaction write failure to the field it
// concerns. Returns ok=false when the error is not a known validation error.
func transactionValidationField(err error) (ValidationError, bool) {
	switch {
	case errors.Is(err, domain.ErrLabelRequired):
		return ValidationError{Field: "label", Message: "Label is required"}, true
	case errors.Is(err, domain.ErrNameTooLong):
		return ValidationError{Field: "label", Message: "Label must be 255 characters or less"}, true
	case errors.Is(err, domain.ErrInvalidAmount):
		return ValidationError{Field: "amount", Message: "Amount must be positive"}, true
	case errors.Is(err, domain.ErrInvalidCategoryType):
		return ValidationError{Field: "type", Message: "Type must be one of: income, expense"}, true
	case errors.Is(err, domain.ErrCategoryNotFound):
		return ValidationError{Field: "categoryId", Message: "Category not found"}, true
	case errors.Is(err, domain.ErrSubCategoryNotFound):
		return ValidationError{Field: "subCategoryId", Message: "Sub-category not found"}, true
	case errors.Is(err, domain.ErrCategoryTypeMismatch):
		return ValidationError{Field: "categoryId", Message: "Category type does not match transaction type"}, true
	case errors.Is(err, domain.ErrSubCategoryMismatch):
		return ValidationError{Field: "subCategoryId", Message: "Sub-category does not belong to category"}, true
	case errors.Is(err, domain.ErrNotesTooLong):
		return ValidationError{Field: "notes", Message: "Notes must be 1000 characters or less"}, true
	}
	return ValidationError{}, false
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body TransactionRequest true "Transaction creation request"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions [post]
func (h *AccountingHandler) CreateTransaction(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseTransactionRequest(c, &req)
	if input == nil {
		return err
	}

	transaction, err := h.accountingService.CreateTransaction(c.Request().Context(), organizationID, userID, *input)
	if err != nil {
		if field, known := transactionValidationField(err); known {
			return NewValidationError(c, "Validation failed", []ValidationError{field})
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("transaction_id", transaction.ID.String()).
		Str("label", transaction.Label).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions godoc
// @Summary List transactions
// @Description Get transactions with optional visibility, year, type and category filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param visibility query string false "Visibility filter (all, common, personal)" default(all)
// @Param year query int false "Filter by accounting year"
// @Param type query string false "Transaction type (income or expense)"
// @Param categoryId query string false "Filter by category ID"
// @Success 200 {array} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions [get]
func (h *AccountingHandler) GetTransactions(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	filters := &domain.TransactionFilters{
		Visibility: domain.VisibilityAll,
	}

	if v := c.QueryParam("visibility"); v != "" {
		filters.Visibility = domain.Visibility(v)
	}

	if yearStr := c.QueryParam("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return NewValidationError(c, "Invalid year", []ValidationError{
				{Field: "year", Message: "Must be an integer"},
			})
		}
		filters.Year = &year
	}

	if typeStr := c.QueryParam("type"); typeStr != "" {
		typ := domain.CategoryType(typeStr)
		if typ != domain.CategoryTypeIncome && typ != domain.CategoryTypeExpense {
			return NewValidationError(c, "Invalid type", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		filters.Type = &typ
	}

	if categoryIDStr := c.QueryParam("categoryId"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		filters.CategoryID = &categoryID
	}

	transactions, err := h.accountingService.GetTransactions(c.Request().Context(), organizationID, userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVisibility) {
			return NewValidationError(c, "Invalid visibility", []ValidationError{
				{Field: "visibility", Message: "Must be one of: all, common, personal"},
			})
		}
		log.Error().Err(err).Str("organization_id", organizationID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions/{id} [get]
func (h *AccountingHandler) GetTransaction(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	transaction, err := h.accountingService.GetTransactionByID(c.Request().Context(), organizationID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Update a transaction; its net amount is recomputed from refunds
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction update request"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions/{id} [put]
func (h *AccountingHandler) UpdateTransaction(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseTransactionRequest(c, &req)
	if input == nil {
		return err
	}

	transaction, err := h.accountingService.UpdateTransaction(c.Request().Context(), organizationID, id, *input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if field, known := transactionValidationField(err); known {
			return NewValidationError(c, "Validation failed", []ValidationError{field})
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Soft-delete a transaction; it no longer appears in listings or reports
// @Tags transactions
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions/{id} [delete]
func (h *AccountingHandler) DeleteTransaction(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.accountingService.DeleteTransaction(c.Request().Context(), organizationID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("transaction_id", id.String()).
		Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// RefundRequest represents the create refund request body
type RefundRequest struct {
	Amount     string  `json:"amount"`
	RefundDate string  `json:"refundDate"`
	Label      *string `json:"label,omitempty"`
}

// CreateRefund godoc
// @Summary Record a refund
// @Description Record a refund against a transaction and recompute its net amount
// @Tags refunds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Transaction ID"
// @Param request body RefundRequest true "Refund creation request"
// @Success 201 {object} domain.Refund
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions/{id}/refunds [post]
func (h *AccountingHandler) CreateRefund(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	transactionID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req RefundRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	refundDate, err := time.Parse("2006-01-02", req.RefundDate)
	if err != nil {
		return NewValidationError(c, "Invalid refundDate", []ValidationError{
			{Field: "refundDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	refund, err := h.accountingService.CreateRefund(c.Request().Context(), organizationID, transactionID, service.CreateRefundInput{
		Amount:     amount,
		RefundDate: refundDate,
		Label:      req.Label,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("transaction_id", transactionID.String()).Msg("Failed to create refund")
		return NewInternalError(c, "Failed to create refund")
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("transaction_id", transactionID.String()).
		Str("refund_id", refund.ID.String()).
		Msg("Refund created")

	return c.JSON(http.StatusCreated, refund)
}

// GetRefunds godoc
// @Summary List refunds for a transaction
// @Tags refunds
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Transaction ID"
// @Success 200 {array} domain.Refund
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/transactions/{id}/refunds [get]
func (h *AccountingHandler) GetRefunds(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	transactionID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	refunds, err := h.accountingService.GetRefunds(c.Request().Context(), organizationID, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", transactionID.String()).Msg("Failed to list refunds")
		return NewInternalError(c, "Failed to list refunds")
	}

	return c.JSON(http.StatusOK, refunds)
}

// DeleteRefund godoc
// @Summary Delete a refund
// @Description Delete a refund and recompute the transaction's net amount
// @Tags refunds
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param refundId path string true "Refund ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/refunds/{refundId} [delete]
func (h *AccountingHandler) DeleteRefund(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	refundID, ok := parseIDParam(c, "refundId")
	if !ok {
		return nil
	}

	if err := h.accountingService.DeleteRefund(c.Request().Context(), organizationID, refundID); err != nil {
		if errors.Is(err, domain.ErrRefundNotFound) {
			return NewNotFoundError(c, "Refund not found")
		}
		log.Error().Err(err).Str("refund_id", refundID.String()).Msg("Failed to delete refund")
		return NewInternalError(c, "Failed to delete refund")
	}

	return c.NoContent(http.StatusNoContent)
}
