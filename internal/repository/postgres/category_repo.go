package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, organization_id, name, type, is_system, created_at, updated_at`

// Create inserts a category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (organization_id, name, type, is_system)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		uuidToPg(category.OrganizationID), category.Name, string(category.Type), category.IsSystem,
	)
	return scanCategory(row)
}

// GetByID retrieves a category by ID within an organization
func (r *CategoryRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByOrganization retrieves all categories of an organization, optionally
// narrowed to one type
func (r *CategoryRepository) GetByOrganization(ctx context.Context, organizationID uuid.UUID, typ *domain.CategoryType) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE organization_id = $1`
	args := []interface{}{uuidToPg(organizationID)}

	if typ != nil {
		args = append(args, string(*typ))
		query += ` AND type = $2`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

// Update renames a category
func (r *CategoryRepository) Update(ctx context.Context, organizationID, id uuid.UUID, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		uuidToPg(organizationID), uuidToPg(id), name,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category and cascades to its sub-categories
func (r *CategoryRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM categories
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category  domain.Category
		id, orgID pgtype.UUID
		typ       string
	)
	err := row.Scan(&id, &orgID, &category.Name, &typ, &category.IsSystem,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	category.ID = pgToUUID(id)
	category.OrganizationID = pgToUUID(orgID)
	category.Type = domain.CategoryType(typ)
	return &category, nil
}

// SubCategoryRepository implements domain.SubCategoryRepository using PostgreSQL
type SubCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewSubCategoryRepository creates a new SubCategoryRepository
func NewSubCategoryRepository(pool *pgxpool.Pool) *SubCategoryRepository {
	return &SubCategoryRepository{pool: pool}
}

const subCategoryColumns = `id, category_id, name, created_at, updated_at`

// Create inserts a sub-category
func (r *SubCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) (*domain.SubCategory, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sub_categories (category_id, name)
		VALUES ($1, $2)
		RETURNING `+subCategoryColumns,
		uuidToPg(subCategory.CategoryID), subCategory.Name,
	)
	return scanSubCategory(row)
}

// GetByID retrieves a sub-category by ID
func (r *SubCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+subCategoryColumns+`
		FROM sub_categories
		WHERE id = $1`,
		uuidToPg(id),
	)
	sub, err := scanSubCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// GetByCategory retrieves all sub-categories of a category
func (r *SubCategoryRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subCategoryColumns+`
		FROM sub_categories
		WHERE category_id = $1
		ORDER BY name`,
		uuidToPg(categoryID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubCategories(rows)
}

// GetByOrganization retrieves all sub-categories across an organization's categories
func (r *SubCategoryRepository) GetByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.SubCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sc.id, sc.category_id, sc.name, sc.created_at, sc.updated_at
		FROM sub_categories sc
		JOIN categories c ON c.id = sc.category_id
		WHERE c.organization_id = $1
		ORDER BY sc.name`,
		uuidToPg(organizationID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubCategories(rows)
}

// Update renames a sub-category
func (r *SubCategoryRepository) Update(ctx context.Context, id uuid.UUID, name string) (*domain.SubCategory, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE sub_categories
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+subCategoryColumns,
		uuidToPg(id), name,
	)
	sub, err := scanSubCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Delete removes a sub-category; referencing transactions keep a dangling
// sub_category_id set to NULL by the FK
func (r *SubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM sub_categories
		WHERE id = $1`,
		uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubCategoryNotFound
	}
	return nil
}

func scanSubCategory(row pgx.Row) (*domain.SubCategory, error) {
	var (
		sub            domain.SubCategory
		id, categoryID pgtype.UUID
	)
	err := row.Scan(&id, &categoryID, &sub.Name, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.ID = pgToUUID(id)
	sub.CategoryID = pgToUUID(categoryID)
	return &sub, nil
}

func scanSubCategories(rows pgx.Rows) ([]*domain.SubCategory, error) {
	var result []*domain.SubCategory
	for rows.Next() {
		sub, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}
