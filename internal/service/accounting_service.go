package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// AccountingService handles transaction and refund business logic
type AccountingService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	subCategoryRepo domain.SubCategoryRepository
	refundRepo      domain.RefundRepository
	eventPublisher  websocket.EventPublisher
}

// NewAccountingService creates a new AccountingService
func NewAccountingService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	subCategoryRepo domain.SubCategoryRepository,
	refundRepo domain.RefundRepository,
) *AccountingService {
	return &AccountingService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		refundRepo:      refundRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AccountingService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AccountingService) publishEvent(organizationID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	CategoryID      uuid.UUID
	SubCategoryID   *uuid.UUID
	Label           string
	Amount          decimal.Decimal
	Type            domain.CategoryType
	AccountingDate  time.Time
	TransactionDate *time.Time
	IsPersonal      bool
	Notes           *string
}

// CreateTransaction creates a new transaction with validation
func (s *AccountingService) CreateTransaction(ctx context.Context, organizationID, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, domain.ErrLabelRequired
	}
	if len(label) > domain.MaxLabelLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Type != domain.CategoryTypeIncome && input.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}

	if err := s.validateCategoryAssignment(ctx, organizationID, input.CategoryID, input.SubCategoryID, input.Type); err != nil {
		return nil, err
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	// Default the cash-flow date to the accounting date
	transactionDate := input.AccountingDate
	if input.TransactionDate != nil {
		transactionDate = *input.TransactionDate
	}

	transaction := &domain.Transaction{
		OrganizationID:  organizationID,
		UserID:          userID,
		CategoryID:      input.CategoryID,
		SubCategoryID:   input.SubCategoryID,
		Label:           label,
		Amount:          input.Amount,
		Type:            input.Type,
		AccountingDate:  input.AccountingDate,
		TransactionDate: transactionDate,
		IsPersonal:      input.IsPersonal,
		Notes:           notes,
	}

	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeTransaction, created))
	return created, nil
}

// GetTransactions retrieves an organization's transactions with optional filters
func (s *AccountingService) GetTransactions(ctx context.Context, organizationID, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{Visibility: domain.VisibilityAll}
	}
	switch filters.Visibility {
	case domain.VisibilityAll, domain.VisibilityCommon, domain.VisibilityPersonal, "":
	default:
		return nil, domain.ErrInvalidVisibility
	}
	filters.UserID = userID
	return s.transactionRepo.GetByOrganization(ctx, organizationID, filters)
}

// GetTransactionByID retrieves a transaction by ID within an organization
func (s *AccountingService) GetTransactionByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, organizationID, id)
}

// UpdateTransaction updates a transaction with validation and recomputes the
// net amount when refunds exist
func (s *AccountingService) UpdateTransaction(ctx context.Context, organizationID, id uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, domain.ErrLabelRequired
	}
	if len(label) > domain.MaxLabelLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Type != domain.CategoryTypeIncome && input.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}

	if err := s.validateCategoryAssignment(ctx, organizationID, input.CategoryID, input.SubCategoryID, input.Type); err != nil {
		return nil, err
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	transactionDate := input.AccountingDate
	if input.TransactionDate != nil {
		transactionDate = *input.TransactionDate
	}

	updated, err := s.transactionRepo.Update(ctx, organizationID, id, &domain.UpdateTransactionData{
		Label:           label,
		Amount:          input.Amount,
		CategoryID:      input.CategoryID,
		SubCategoryID:   input.SubCategoryID,
		Type:            input.Type,
		AccountingDate:  input.AccountingDate,
		TransactionDate: transactionDate,
		IsPersonal:      input.IsPersonal,
		Notes:           notes,
	})
	if err != nil {
		return nil, err
	}

	// The amount may have changed under existing refunds
	updated, err = s.recomputeNetAmount(ctx, organizationID, updated)
	if err != nil {
		return nil, err
	}

	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeTransaction, updated))
	return updated, nil
}

// DeleteTransaction soft-deletes a transaction
func (s *AccountingService) DeleteTransaction(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.transactionRepo.SoftDelete(ctx, organizationID, id); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeTransaction, map[string]uuid.UUID{"id": id}))
	return nil
}

// CreateRefundInput holds the input for recording a refund
type CreateRefundInput struct {
	Amount     decimal.Decimal
	RefundDate time.Time
	Label      *string
}

// CreateRefund records a refund against a transaction and recomputes its net
// amount. Refund sums are not clamped: the net amount can go negative.
func (s *AccountingService) CreateRefund(ctx context.Context, organizationID, transactionID uuid.UUID, input CreateRefundInput) (*domain.Refund, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	transaction, err := s.transactionRepo.GetByID(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}

	refund := &domain.Refund{
		TransactionID: transaction.ID,
		Amount:        input.Amount,
		RefundDate:    input.RefundDate,
		Label:         input.Label,
	}
	created, err := s.refundRepo.Create(ctx, refund)
	if err != nil {
		return nil, err
	}

	updated, err := s.recomputeNetAmount(ctx, organizationID, transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeRefund, created))
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeTransaction, updated))
	return created, nil
}

// GetRefunds lists the refunds of a transaction
func (s *AccountingService) GetRefunds(ctx context.Context, organizationID, transactionID uuid.UUID) ([]*domain.Refund, error) {
	if _, err := s.transactionRepo.GetByID(ctx, organizationID, transactionID); err != nil {
		return nil, err
	}
	return s.refundRepo.GetByTransaction(ctx, transactionID)
}

// DeleteRefund removes a refund and recomputes the transaction's net amount
func (s *AccountingService) DeleteRefund(ctx context.Context, organizationID, refundID uuid.UUID) error {
	refund, err := s.refundRepo.GetByID(ctx, refundID)
	if err != nil {
		return err
	}
	transaction, err := s.transactionRepo.GetByID(ctx, organizationID, refund.TransactionID)
	if err != nil {
		return err
	}

	if err := s.refundRepo.Delete(ctx, refundID); err != nil {
		return err
	}

	updated, err := s.recomputeNetAmount(ctx, organizationID, transaction)
	if err != nil {
		return err
	}

	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeRefund, map[string]uuid.UUID{"id": refundID}))
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeTransaction, updated))
	return nil
}

// recomputeNetAmount stores amount minus the unclamped sum of refunds, or
// clears net_amount when no refunds remain
func (s *AccountingService) recomputeNetAmount(ctx context.Context, organizationID uuid.UUID, transaction *domain.Transaction) (*domain.Transaction, error) {
	refunds, err := s.refundRepo.GetByTransaction(ctx, transaction.ID)
	if err != nil {
		return nil, err
	}
	if len(refunds) == 0 {
		return s.transactionRepo.SetNetAmount(ctx, organizationID, transaction.ID, nil)
	}

	total := decimal.Zero
	for _, refund := range refunds {
		total = total.Add(refund.Amount)
	}
	net := transaction.Amount.Sub(total)
	return s.transactionRepo.SetNetAmount(ctx, organizationID, transaction.ID, &net)
}

// validateCategoryAssignment checks that the category belongs to the
// organization, agrees with the transaction type, and that any sub-category
// belongs to the category
func (s *AccountingService) validateCategoryAssignment(ctx context.Context, organizationID, categoryID uuid.UUID, subCategoryID *uuid.UUID, typ domain.CategoryType) error {
	category, err := s.categoryRepo.GetByID(ctx, organizationID, categoryID)
	if err != nil {
		return err
	}
	if category.Type != typ {
		return domain.ErrCategoryTypeMismatch
	}
	if subCategoryID != nil {
		sub, err := s.subCategoryRepo.GetByID(ctx, *subCategoryID)
		if err != nil {
			return err
		}
		if sub.CategoryID != categoryID {
			return domain.ErrSubCategoryMismatch
		}
	}
	return nil
}

func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxNotesLength {
		return nil, domain.ErrNotesTooLong
	}
	return &trimmed, nil
}
