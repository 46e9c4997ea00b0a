package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/middleware"
)

// seedSecondMember adds another user to the fixture organization
func (f *fixture) seedSecondMember() uuid.UUID {
	id := uuid.New()
	f.userRepo.AddUser(&domain.User{
		ID:      id,
		Auth0ID: "auth0|member",
		Email:   "member@example.com",
	})
	f.memberRepo.AddMember(&domain.Member{
		OrganizationID: f.organizationID,
		UserID:         id,
		Role:           domain.MemberRoleMember,
		JoinedAt:       time.Now(),
	})
	return id
}

func TestCreateNote_Success(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes",
		`{"title":"Courses","content":"Acheter du café","pinned":true}`)

	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to unmarshal note: %v", err)
	}
	if note.Title != "Courses" {
		t.Errorf("Expected title Courses, got %s", note.Title)
	}
	if !note.Pinned {
		t.Error("Expected note to be pinned")
	}
	if note.AuthorID != f.userID {
		t.Errorf("Expected author %s, got %s", f.userID, note.AuthorID)
	}
}

func TestCreateNote_TitleRequired(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes", `{"title":"   ","content":"x"}`)

	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "title" {
		t.Errorf("Expected a title field error, got %+v", problem.Errors)
	}
}

func TestGetNote_PersonalHiddenFromOtherMembers(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)
	otherID := f.seedSecondMember()

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes",
		`{"title":"Privé","content":"secret","isPersonal":true}`)
	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to unmarshal note: %v", err)
	}

	c, rec = f.requestAs(otherID, http.MethodGet, "/api/v1/organizations/x/notes/x", "")
	addParams(c, []string{"id"}, []string{note.ID.String()})

	if err := h.GetNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestAddCollaborator_GrantsAccess(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)
	otherID := f.seedSecondMember()

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes",
		`{"title":"Projet","content":"notes partagées","isPersonal":true}`)
	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to unmarshal note: %v", err)
	}

	body := fmt.Sprintf(`{"userId":%q}`, otherID)
	c, rec = f.request(http.MethodPost, "/api/v1/organizations/x/notes/x/collaborators", body)
	addParams(c, []string{"id"}, []string{note.ID.String()})
	if err := h.AddCollaborator(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	c, rec = f.requestAs(otherID, http.MethodGet, "/api/v1/organizations/x/notes/x", "")
	addParams(c, []string{"id"}, []string{note.ID.String()})
	if err := h.GetNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for collaborator, got %d", rec.Code)
	}
}

func TestAddCollaborator_NotAMember(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes",
		`{"title":"Projet","isPersonal":true}`)
	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to unmarshal note: %v", err)
	}

	body := fmt.Sprintf(`{"userId":%q}`, uuid.New())
	c, rec = f.request(http.MethodPost, "/api/v1/organizations/x/notes/x/collaborators", body)
	addParams(c, []string{"id"}, []string{note.ID.String()})
	if err := h.AddCollaborator(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteNote_AuthorOnly(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)
	otherID := f.seedSecondMember()

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes", `{"title":"Commune"}`)
	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to unmarshal note: %v", err)
	}

	c, rec = f.requestAs(otherID, http.MethodDelete, "/api/v1/organizations/x/notes/x", "")
	addParams(c, []string{"id"}, []string{note.ID.String()})
	if err := h.DeleteNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestUploadAttachment_StorageNotConfigured(t *testing.T) {
	f := newFixture()
	h := NewNoteHandler(f.noteService, f.organizationService)

	c, rec := f.request(http.MethodPost, "/api/v1/organizations/x/notes", `{"title":"Photos"}`)
	if err := h.CreateNote(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var note domain.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to unmarshal note: %v", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "photo.jpg")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("not really a jpeg")); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/organizations/x/notes/x/attachments", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	ctx := context.WithValue(req.Context(), middleware.UserKey, &domain.User{ID: f.userID})
	req = req.WithContext(ctx)
	rec = httptest.NewRecorder()
	c = f.echo.NewContext(req, rec)
	c.SetParamNames("orgId", "id")
	c.SetParamValues(f.organizationID.String(), note.ID.String())

	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d: %s", rec.Code, rec.Body.String())
	}
}
