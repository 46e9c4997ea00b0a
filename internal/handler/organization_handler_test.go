package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

func TestCreateOrganization_Success(t *testing.T) {
	f := newFixture()
	h := NewOrganizationHandler(f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations", `{"name": "Famille Martin"}`)

	if err := h.CreateOrganization(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Organization
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Name != "Famille Martin" {
		t.Errorf("Expected name 'Famille Martin', got %s", response.Name)
	}
	if response.OwnerID != f.userID {
		t.Errorf("Expected owner %s, got %s", f.userID, response.OwnerID)
	}

	// Default categories are seeded on creation
	categories, err := f.categoryService.GetCategories(c.Request().Context(), response.ID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) == 0 {
		t.Error("Expected default categories to be seeded")
	}
}

func TestCreateOrganization_NameRequired(t *testing.T) {
	f := newFixture()
	h := NewOrganizationHandler(f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations", `{"name": "   "}`)

	if err := h.CreateOrganization(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetOrganization_NotAMember(t *testing.T) {
	f := newFixture()
	h := NewOrganizationHandler(f.organizationService)

	other := &domain.Organization{
		ID:      uuid.New(),
		Name:    "Other Org",
		OwnerID: uuid.New(),
	}
	f.orgRepo.AddOrganization(other)

	c, rec := f.request(http.MethodGet, "/api/v1/organizations/x", "")
	c.SetParamNames("orgId")
	c.SetParamValues(other.ID.String())

	if err := h.GetOrganization(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestInviteMember_UserNotFound(t *testing.T) {
	f := newFixture()
	h := NewOrganizationHandler(f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/members", `{"email": "stranger@example.com"}`)

	if err := h.InviteMember(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestInviteMember_Success(t *testing.T) {
	f := newFixture()
	h := NewOrganizationHandler(f.organizationService)

	invitee := &domain.User{
		ID:      uuid.New(),
		Auth0ID: "auth0|invitee",
		Email:   "invitee@example.com",
	}
	f.userRepo.AddUser(invitee)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/members", `{"email": "invitee@example.com"}`)

	if err := h.InviteMember(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var member domain.Member
	if err := json.Unmarshal(rec.Body.Bytes(), &member); err != nil {
		t.Fatalf("Failed to unmarshal member: %v", err)
	}
	if member.UserID != invitee.ID {
		t.Errorf("Expected member %s, got %s", invitee.ID, member.UserID)
	}
	if member.Role != domain.MemberRoleMember {
		t.Errorf("Expected role 'member', got %s", member.Role)
	}
}

func TestRemoveMember_LastOwner(t *testing.T) {
	f := newFixture()
	h := NewOrganizationHandler(f.organizationService)

	c, rec := f.request(http.MethodDelete, "/api/v1/organizations/x/members/x", "")
	addParams(c, []string{"userId"}, []string{f.userID.String()})

	if err := h.RemoveMember(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}
