package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund reduces the effective amount of its parent transaction. Several
// refunds may target the same transaction and their sum is not clamped
// against the transaction amount, so a net amount can go negative.
type Refund struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	RefundDate    time.Time       `json:"refundDate"`
	Label         *string         `json:"label,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type RefundRepository interface {
	Create(ctx context.Context, refund *Refund) (*Refund, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	GetByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*Refund, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
