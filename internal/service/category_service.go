package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// DefaultCategories are seeded into every new organization. They carry the
// is_system flag and cannot be renamed or deleted.
var DefaultCategories = []struct {
	Name string
	Type domain.CategoryType
}{
	{"Logement", domain.CategoryTypeExpense},
	{"Alimentation", domain.CategoryTypeExpense},
	{"Transport", domain.CategoryTypeExpense},
	{"Salaire", domain.CategoryTypeIncome},
}

// CategoryService handles category and sub-category business logic
type CategoryService struct {
	categoryRepo    domain.CategoryRepository
	subCategoryRepo domain.SubCategoryRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo domain.CategoryRepository,
	subCategoryRepo domain.SubCategoryRepository,
	transactionRepo domain.TransactionRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CategoryService) publishEvent(organizationID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, event)
	}
}

// SeedDefaults creates the system categories for a new organization
func (s *CategoryService) SeedDefaults(ctx context.Context, organizationID uuid.UUID) error {
	for _, def := range DefaultCategories {
		_, err := s.categoryRepo.Create(ctx, &domain.Category{
			OrganizationID: organizationID,
			Name:           def.Name,
			Type:           def.Type,
			IsSystem:       true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateCategory creates a user-defined category
func (s *CategoryService) CreateCategory(ctx context.Context, organizationID uuid.UUID, name string, typ domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if typ != domain.CategoryTypeIncome && typ != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}

	created, err := s.categoryRepo.Create(ctx, &domain.Category{
		OrganizationID: organizationID,
		Name:           name,
		Type:           typ,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeCategory, created))
	return created, nil
}

// GetCategories lists an organization's categories, optionally by type
func (s *CategoryService) GetCategories(ctx context.Context, organizationID uuid.UUID, typ *domain.CategoryType) ([]*domain.Category, error) {
	if typ != nil && *typ != domain.CategoryTypeIncome && *typ != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}
	return s.categoryRepo.GetByOrganization(ctx, organizationID, typ)
}

// UpdateCategory renames a category. System categories are protected.
func (s *CategoryService) UpdateCategory(ctx context.Context, organizationID, id uuid.UUID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	category, err := s.categoryRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if category.IsSystem {
		return nil, domain.ErrSystemCategory
	}

	updated, err := s.categoryRepo.Update(ctx, organizationID, id, name)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeCategory, updated))
	return updated, nil
}

// DeleteCategory removes a category unless it is a system category or still
// referenced by transactions
func (s *CategoryService) DeleteCategory(ctx context.Context, organizationID, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return domain.ErrSystemCategory
	}

	count, err := s.transactionRepo.CountByCategory(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, organizationID, id); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeCategory, map[string]uuid.UUID{"id": id}))
	return nil
}

// CanDeleteResult reports whether a category is deletable and what blocks it
type CanDeleteResult struct {
	CanDelete        bool   `json:"canDelete"`
	Reason           string `json:"reason,omitempty"`
	TransactionCount int64  `json:"transactionCount"`
}

// CanDeleteCategory checks deletability without mutating anything, so the
// client can disable the delete action up front
func (s *CategoryService) CanDeleteCategory(ctx context.Context, organizationID, id uuid.UUID) (*CanDeleteResult, error) {
	category, err := s.categoryRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if category.IsSystem {
		return &CanDeleteResult{CanDelete: false, Reason: "system category"}, nil
	}

	count, err := s.transactionRepo.CountByCategory(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &CanDeleteResult{CanDelete: false, Reason: "category has transactions", TransactionCount: count}, nil
	}
	return &CanDeleteResult{CanDelete: true}, nil
}

// CreateSubCategory adds a sub-category under a category
func (s *CategoryService) CreateSubCategory(ctx context.Context, organizationID, categoryID uuid.UUID, name string) (*domain.SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if _, err := s.categoryRepo.GetByID(ctx, organizationID, categoryID); err != nil {
		return nil, err
	}

	created, err := s.subCategoryRepo.Create(ctx, &domain.SubCategory{
		CategoryID: categoryID,
		Name:       name,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeSubCategory, created))
	return created, nil
}

// GetSubCategories lists the sub-categories of a category
func (s *CategoryService) GetSubCategories(ctx context.Context, organizationID, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	if _, err := s.categoryRepo.GetByID(ctx, organizationID, categoryID); err != nil {
		return nil, err
	}
	return s.subCategoryRepo.GetByCategory(ctx, categoryID)
}

// UpdateSubCategory renames a sub-category
func (s *CategoryService) UpdateSubCategory(ctx context.Context, organizationID, id uuid.UUID, name string) (*domain.SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	sub, err := s.subCategoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, organizationID, sub.CategoryID); err != nil {
		return nil, err
	}

	updated, err := s.subCategoryRepo.Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeSubCategory, updated))
	return updated, nil
}

// DeleteSubCategory removes a sub-category
func (s *CategoryService) DeleteSubCategory(ctx context.Context, organizationID, id uuid.UUID) error {
	sub, err := s.subCategoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.categoryRepo.GetByID(ctx, organizationID, sub.CategoryID); err != nil {
		return err
	}

	if err := s.subCategoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeSubCategory, map[string]uuid.UUID{"id": id}))
	return nil
}
