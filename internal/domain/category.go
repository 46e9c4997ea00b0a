package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID             uuid.UUID    `json:"id"`
	OrganizationID uuid.UUID    `json:"organizationId"`
	Name           string       `json:"name"`
	Type           CategoryType `json:"type"`
	IsSystem       bool         `json:"isSystem"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// SubCategory belongs to exactly one category and inherits its type.
type SubCategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Category, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID, typ *CategoryType) ([]*Category, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, name string) (*Category, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

type SubCategoryRepository interface {
	Create(ctx context.Context, subCategory *SubCategory) (*SubCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SubCategory, error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*SubCategory, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*SubCategory, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
