package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

func TestCreateCategory_Success(t *testing.T) {
	f := newFixture()
	h := NewCategoryHandler(f.categoryService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/categories",
		`{"name":"Abonnements","type":"expense"}`)

	if err := h.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var category domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &category); err != nil {
		t.Fatalf("Failed to unmarshal category: %v", err)
	}
	if category.Name != "Abonnements" {
		t.Errorf("Expected name Abonnements, got %s", category.Name)
	}
	if category.IsSystem {
		t.Error("Expected user-created category, got system category")
	}
}

func TestCreateCategory_InvalidType(t *testing.T) {
	f := newFixture()
	h := NewCategoryHandler(f.categoryService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/categories",
		`{"name":"Divers","type":"transfer"}`)

	if err := h.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "type" {
		t.Errorf("Expected a type field error, got %+v", problem.Errors)
	}
}

func TestDeleteCategory_SystemForbidden(t *testing.T) {
	f := newFixture()
	h := NewCategoryHandler(f.categoryService, f.organizationService)

	system := &domain.Category{
		ID:             uuid.New(),
		OrganizationID: f.organizationID,
		Name:           "Alimentation",
		Type:           domain.CategoryTypeExpense,
		IsSystem:       true,
	}
	f.categoryRepo.AddCategory(system)

	c, rec := f.request(http.MethodDelete, "/api/v1/organizations/x/categories/x", "")
	addParams(c, []string{"id"}, []string{system.ID.String()})

	if err := h.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteCategory_InUseConflict(t *testing.T) {
	f := newFixture()
	h := NewCategoryHandler(f.categoryService, f.organizationService)

	category := f.seedCategory("Transport", domain.CategoryTypeExpense)
	f.transactionRepo.AddTransaction(&domain.Transaction{
		ID:             uuid.New(),
		OrganizationID: f.organizationID,
		UserID:         f.userID,
		CategoryID:     category.ID,
		Label:          "essence",
		Amount:         decimal.NewFromInt(60),
		Type:           domain.CategoryTypeExpense,
		AccountingDate: time.Now(),
	})

	c, rec := f.request(http.MethodDelete, "/api/v1/organizations/x/categories/x", "")
	addParams(c, []string{"id"}, []string{category.ID.String()})

	if err := h.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestCanDeleteCategory(t *testing.T) {
	f := newFixture()
	h := NewCategoryHandler(f.categoryService, f.organizationService)

	empty := f.seedCategory("Loisirs", domain.CategoryTypeExpense)
	used := f.seedCategory("Transport", domain.CategoryTypeExpense)
	f.transactionRepo.AddTransaction(&domain.Transaction{
		ID:             uuid.New(),
		OrganizationID: f.organizationID,
		UserID:         f.userID,
		CategoryID:     used.ID,
		Label:          "métro",
		Amount:         decimal.NewFromInt(30),
		Type:           domain.CategoryTypeExpense,
		AccountingDate: time.Now(),
	})

	check := func(id uuid.UUID) service.CanDeleteResult {
		c, rec := f.request(http.MethodGet, "/api/v1/organizations/x/categories/x/can-delete", "")
		addParams(c, []string{"id"}, []string{id.String()})
		if err := h.CanDeleteCategory(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var result service.CanDeleteResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to unmarshal result: %v", err)
		}
		return result
	}

	if result := check(empty.ID); !result.CanDelete {
		t.Errorf("Expected empty category to be deletable, got %+v", result)
	}
	if result := check(used.ID); result.CanDelete || result.TransactionCount != 1 {
		t.Errorf("Expected used category to be blocked with 1 transaction, got %+v", result)
	}
}

func TestCreateSubCategory_ParentNotFound(t *testing.T) {
	f := newFixture()
	h := NewCategoryHandler(f.categoryService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/categories/x/subcategories", `{"name":"Bus"}`)
	addParams(c, []string{"id"}, []string{uuid.New().String()})

	if err := h.CreateSubCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
