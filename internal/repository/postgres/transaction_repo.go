package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/util"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, organization_id, user_id, category_id, sub_category_id, label,
	amount, net_amount, type, accounting_date, transaction_date, is_personal, notes,
	created_at, updated_at, deleted_at`

// Create inserts a transaction and returns the stored row
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (organization_id, user_id, category_id, sub_category_id, label,
			amount, type, accounting_date, transaction_date, is_personal, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+transactionColumns,
		uuidToPg(transaction.OrganizationID),
		uuidToPg(transaction.UserID),
		uuidToPg(transaction.CategoryID),
		uuidPtrToPg(transaction.SubCategoryID),
		transaction.Label,
		amount,
		string(transaction.Type),
		transaction.AccountingDate,
		transaction.TransactionDate,
		transaction.IsPersonal,
		stringPtrToPgText(transaction.Notes),
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID within an organization
func (r *TransactionRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// GetByOrganization retrieves all non-deleted transactions for an organization,
// narrowed by the optional filters
func (r *TransactionRepository) GetByOrganization(ctx context.Context, organizationID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE organization_id = $1 AND deleted_at IS NULL`
	args := []interface{}{uuidToPg(organizationID)}

	if filters != nil {
		switch filters.Visibility {
		case domain.VisibilityCommon:
			query += ` AND is_personal = FALSE`
		case domain.VisibilityPersonal:
			args = append(args, uuidToPg(filters.UserID))
			query += fmt.Sprintf(` AND is_personal = TRUE AND user_id = $%d`, len(args))
		default:
			// Everyone's common transactions plus the caller's personal ones
			args = append(args, uuidToPg(filters.UserID))
			query += fmt.Sprintf(` AND (is_personal = FALSE OR user_id = $%d)`, len(args))
		}
		if filters.Year != nil {
			// Half-open range keeps the accounting_date index usable
			start, end := util.YearBounds(*filters.Year)
			args = append(args, start, end)
			query += fmt.Sprintf(` AND accounting_date >= $%d AND accounting_date < $%d`, len(args)-1, len(args))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			query += fmt.Sprintf(` AND type = $%d`, len(args))
		}
		if filters.CategoryID != nil {
			args = append(args, uuidToPg(*filters.CategoryID))
			query += fmt.Sprintf(` AND category_id = $%d`, len(args))
		}
	}
	query += ` ORDER BY accounting_date, created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Update replaces all mutable fields of a transaction
func (r *TransactionRepository) Update(ctx context.Context, organizationID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET label = $3, amount = $4, category_id = $5, sub_category_id = $6, type = $7,
			accounting_date = $8, transaction_date = $9, is_personal = $10, notes = $11,
			updated_at = NOW()
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+transactionColumns,
		uuidToPg(organizationID), uuidToPg(id),
		data.Label, amount,
		uuidToPg(data.CategoryID), uuidPtrToPg(data.SubCategoryID),
		string(data.Type), data.AccountingDate, data.TransactionDate,
		data.IsPersonal, stringPtrToPgText(data.Notes),
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// SetNetAmount stores the recomputed net amount, or clears it when nil
func (r *TransactionRepository) SetNetAmount(ctx context.Context, organizationID, id uuid.UUID, netAmount *decimal.Decimal) (*domain.Transaction, error) {
	net, err := decimalPtrToPgNumeric(netAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid net amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET net_amount = $3, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+transactionColumns,
		uuidToPg(organizationID), uuidToPg(id), net,
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// SoftDelete marks a transaction deleted without removing the row
func (r *TransactionRepository) SoftDelete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE organization_id = $1 AND id = $2 AND deleted_at IS NULL`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// CountByCategory counts non-deleted transactions referencing a category
func (r *TransactionRepository) CountByCategory(ctx context.Context, organizationID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE organization_id = $1 AND category_id = $2 AND deleted_at IS NULL`,
		uuidToPg(organizationID), uuidToPg(categoryID),
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx                            domain.Transaction
		id, orgID, userID, categoryID pgtype.UUID
		subCategoryID                 pgtype.UUID
		amount, netAmount             pgtype.Numeric
		typ                           string
		notes                         pgtype.Text
		deletedAt                     pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &orgID, &userID, &categoryID, &subCategoryID, &tx.Label,
		&amount, &netAmount, &typ, &tx.AccountingDate, &tx.TransactionDate,
		&tx.IsPersonal, &notes, &tx.CreatedAt, &tx.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.ID = pgToUUID(id)
	tx.OrganizationID = pgToUUID(orgID)
	tx.UserID = pgToUUID(userID)
	tx.CategoryID = pgToUUID(categoryID)
	tx.SubCategoryID = pgToUUIDPtr(subCategoryID)
	tx.Amount = pgNumericToDecimal(amount)
	tx.NetAmount = pgNumericToDecimalPtr(netAmount)
	tx.Type = domain.CategoryType(typ)
	tx.Notes = pgTextToStringPtr(notes)
	tx.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &tx, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}
