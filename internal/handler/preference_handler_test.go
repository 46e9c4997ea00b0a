package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

func TestGetFilter_DefaultsToAll(t *testing.T) {
	f := newFixture()
	h := NewPreferenceHandler(f.preferenceService, f.organizationService)

	c, rec := f.request(http.MethodGet, "/api/v1/organizations/x/preferences/accounting-filter", "")

	if err := h.GetFilter(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var preference domain.FilterPreference
	if err := json.Unmarshal(rec.Body.Bytes(), &preference); err != nil {
		t.Fatalf("Failed to unmarshal preference: %v", err)
	}
	if preference.Visibility != domain.VisibilityAll {
		t.Errorf("Expected default visibility all, got %s", preference.Visibility)
	}
}

func TestSetFilter_Success(t *testing.T) {
	f := newFixture()
	h := NewPreferenceHandler(f.preferenceService, f.organizationService)

	c, rec := f.request(http.MethodPut, "/api/v1/organizations/x/preferences/accounting-filter", `{"visibility":"personal"}`)

	if err := h.SetFilter(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var preference domain.FilterPreference
	if err := json.Unmarshal(rec.Body.Bytes(), &preference); err != nil {
		t.Fatalf("Failed to unmarshal preference: %v", err)
	}
	if preference.Visibility != domain.VisibilityPersonal {
		t.Errorf("Expected visibility personal, got %s", preference.Visibility)
	}

	// Subsequent reads return the stored value
	c, rec = f.request(http.MethodGet, "/api/v1/organizations/x/preferences/accounting-filter", "")
	if err := h.GetFilter(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &preference); err != nil {
		t.Fatalf("Failed to unmarshal preference: %v", err)
	}
	if preference.Visibility != domain.VisibilityPersonal {
		t.Errorf("Expected stored visibility personal, got %s", preference.Visibility)
	}
}

func TestSetFilter_InvalidVisibility(t *testing.T) {
	f := newFixture()
	h := NewPreferenceHandler(f.preferenceService, f.organizationService)

	c, rec := f.request(http.MethodPut, "/api/v1/organizations/x/preferences/accounting-filter", `{"visibility":"mine"}`)

	if err := h.SetFilter(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "visibility" {
		t.Errorf("Expected a visibility field error, got %+v", problem.Errors)
	}
}
