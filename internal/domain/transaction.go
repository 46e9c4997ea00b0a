package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Visibility controls which transactions a listing returns relative to the caller.
type Visibility string

const (
	VisibilityAll      Visibility = "all"
	VisibilityCommon   Visibility = "common"
	VisibilityPersonal Visibility = "personal"
)

type Transaction struct {
	ID              uuid.UUID        `json:"id"`
	OrganizationID  uuid.UUID        `json:"organizationId"`
	UserID          uuid.UUID        `json:"userId"`
	CategoryID      uuid.UUID        `json:"categoryId"`
	SubCategoryID   *uuid.UUID       `json:"subCategoryId,omitempty"`
	Label           string           `json:"label"`
	Amount          decimal.Decimal  `json:"amount"`
	NetAmount       *decimal.Decimal `json:"netAmount,omitempty"`
	Type            CategoryType     `json:"type"`
	AccountingDate  time.Time        `json:"accountingDate"`
	TransactionDate time.Time        `json:"transactionDate"`
	IsPersonal      bool             `json:"isPersonal"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	DeletedAt       *time.Time       `json:"deletedAt,omitempty"`
}

// EffectiveAmount returns the amount used for all aggregate math: the net
// amount when refunds have been applied, otherwise the raw amount.
func (t *Transaction) EffectiveAmount() decimal.Decimal {
	if t.NetAmount != nil {
		return *t.NetAmount
	}
	return t.Amount
}

type TransactionFilters struct {
	Visibility Visibility
	UserID     uuid.UUID
	Year       *int
	Type       *CategoryType
	CategoryID *uuid.UUID
}

type UpdateTransactionData struct {
	Label           string
	Amount          decimal.Decimal
	CategoryID      uuid.UUID
	SubCategoryID   *uuid.UUID
	Type            CategoryType
	AccountingDate  time.Time
	TransactionDate time.Time
	IsPersonal      bool
	Notes           *string
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Transaction, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	SetNetAmount(ctx context.Context, organizationID, id uuid.UUID, netAmount *decimal.Decimal) (*Transaction, error)
	SoftDelete(ctx context.Context, organizationID, id uuid.UUID) error
	CountByCategory(ctx context.Context, organizationID, categoryID uuid.UUID) (int64, error)
}
