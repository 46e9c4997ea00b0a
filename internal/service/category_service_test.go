package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/testutil"
)

func newCategoryFixture() (*CategoryService, *testutil.MockCategoryRepository, *testutil.MockSubCategoryRepository, *testutil.MockTransactionRepository) {
	categoryRepo := testutil.NewMockCategoryRepository()
	subCategoryRepo := testutil.NewMockSubCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewCategoryService(categoryRepo, subCategoryRepo, transactionRepo)
	return svc, categoryRepo, subCategoryRepo, transactionRepo
}

func TestSeedDefaults(t *testing.T) {
	svc, categoryRepo, _, _ := newCategoryFixture()

	orgID := uuid.New()
	if err := svc.SeedDefaults(context.Background(), orgID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(categoryRepo.Categories) != len(DefaultCategories) {
		t.Fatalf("Expected %d categories, got %d", len(DefaultCategories), len(categoryRepo.Categories))
	}
	for _, category := range categoryRepo.Categories {
		if !category.IsSystem {
			t.Errorf("Expected seeded category %q to be a system category", category.Name)
		}
	}
}

func TestCreateCategory_InvalidType(t *testing.T) {
	svc, _, _, _ := newCategoryFixture()

	_, err := svc.CreateCategory(context.Background(), uuid.New(), "Divers", "transfer")
	if !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestUpdateCategory_SystemProtected(t *testing.T) {
	svc, categoryRepo, _, _ := newCategoryFixture()

	orgID := uuid.New()
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:             categoryID,
		OrganizationID: orgID,
		Name:           "Logement",
		Type:           domain.CategoryTypeExpense,
		IsSystem:       true,
	})

	_, err := svc.UpdateCategory(context.Background(), orgID, categoryID, "Habitation")
	if !errors.Is(err, domain.ErrSystemCategory) {
		t.Errorf("Expected ErrSystemCategory, got %v", err)
	}
}

func TestDeleteCategory_SystemProtected(t *testing.T) {
	svc, categoryRepo, _, _ := newCategoryFixture()

	orgID := uuid.New()
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:             categoryID,
		OrganizationID: orgID,
		Name:           "Salaire",
		Type:           domain.CategoryTypeIncome,
		IsSystem:       true,
	})

	err := svc.DeleteCategory(context.Background(), orgID, categoryID)
	if !errors.Is(err, domain.ErrSystemCategory) {
		t.Errorf("Expected ErrSystemCategory, got %v", err)
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	svc, categoryRepo, _, transactionRepo := newCategoryFixture()

	orgID := uuid.New()
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:             categoryID,
		OrganizationID: orgID,
		Name:           "Loisirs",
		Type:           domain.CategoryTypeExpense,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CategoryID:     categoryID,
		Label:          "Cinéma",
		Amount:         decimal.NewFromInt(12),
		Type:           domain.CategoryTypeExpense,
		AccountingDate: time.Now(),
	})

	err := svc.DeleteCategory(context.Background(), orgID, categoryID)
	if !errors.Is(err, domain.ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}
}

func TestDeleteCategory_Success(t *testing.T) {
	svc, categoryRepo, _, _ := newCategoryFixture()

	orgID := uuid.New()
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:             categoryID,
		OrganizationID: orgID,
		Name:           "Vide",
		Type:           domain.CategoryTypeExpense,
	})

	if err := svc.DeleteCategory(context.Background(), orgID, categoryID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categoryRepo.Categories) != 0 {
		t.Error("Expected category to be deleted")
	}
}

func TestCreateSubCategory_UnknownCategory(t *testing.T) {
	svc, _, _, _ := newCategoryFixture()

	_, err := svc.CreateSubCategory(context.Background(), uuid.New(), uuid.New(), "Loyer")
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateSubCategory_Success(t *testing.T) {
	svc, categoryRepo, subCategoryRepo, _ := newCategoryFixture()

	orgID := uuid.New()
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:             categoryID,
		OrganizationID: orgID,
		Name:           "Logement",
		Type:           domain.CategoryTypeExpense,
	})

	sub, err := svc.CreateSubCategory(context.Background(), orgID, categoryID, "  Loyer  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sub.Name != "Loyer" {
		t.Errorf("Expected trimmed name 'Loyer', got %q", sub.Name)
	}
	if len(subCategoryRepo.SubCategories) != 1 {
		t.Error("Expected sub-category to be stored")
	}
}

func TestUpdateSubCategory_OtherOrganizationRejected(t *testing.T) {
	svc, categoryRepo, subCategoryRepo, _ := newCategoryFixture()

	categoryID := uuid.New()
	subID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:             categoryID,
		OrganizationID: uuid.New(),
		Name:           "Transport",
		Type:           domain.CategoryTypeExpense,
	})
	subCategoryRepo.AddSubCategory(&domain.SubCategory{
		ID:         subID,
		CategoryID: categoryID,
		Name:       "Essence",
	})

	_, err := svc.UpdateSubCategory(context.Background(), uuid.New(), subID, "Carburant")
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}
