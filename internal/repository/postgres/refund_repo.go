package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// RefundRepository implements domain.RefundRepository using PostgreSQL
type RefundRepository struct {
	pool *pgxpool.Pool
}

// NewRefundRepository creates a new RefundRepository
func NewRefundRepository(pool *pgxpool.Pool) *RefundRepository {
	return &RefundRepository{pool: pool}
}

const refundColumns = `id, transaction_id, amount, refund_date, label, created_at`

// Create inserts a refund
func (r *RefundRepository) Create(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	amount, err := decimalToPgNumeric(refund.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO refunds (transaction_id, amount, refund_date, label)
		VALUES ($1, $2, $3, $4)
		RETURNING `+refundColumns,
		uuidToPg(refund.TransactionID), amount, refund.RefundDate, stringPtrToPgText(refund.Label),
	)
	return scanRefund(row)
}

// GetByID retrieves a refund by ID
func (r *RefundRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Refund, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+refundColumns+`
		FROM refunds
		WHERE id = $1`,
		uuidToPg(id),
	)
	refund, err := scanRefund(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefundNotFound
		}
		return nil, err
	}
	return refund, nil
}

// GetByTransaction retrieves all refunds of a transaction in date order
func (r *RefundRepository) GetByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*domain.Refund, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+refundColumns+`
		FROM refunds
		WHERE transaction_id = $1
		ORDER BY refund_date, created_at`,
		uuidToPg(transactionID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Refund
	for rows.Next() {
		refund, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, refund)
	}
	return result, rows.Err()
}

// Delete removes a refund
func (r *RefundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM refunds
		WHERE id = $1`,
		uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRefundNotFound
	}
	return nil
}

func scanRefund(row pgx.Row) (*domain.Refund, error) {
	var (
		refund            domain.Refund
		id, transactionID pgtype.UUID
		amount            pgtype.Numeric
		label             pgtype.Text
	)
	err := row.Scan(&id, &transactionID, &amount, &refund.RefundDate, &label, &refund.CreatedAt)
	if err != nil {
		return nil, err
	}
	refund.ID = pgToUUID(id)
	refund.TransactionID = pgToUUID(transactionID)
	refund.Amount = pgNumericToDecimal(amount)
	refund.Label = pgTextToStringPtr(label)
	return &refund, nil
}
