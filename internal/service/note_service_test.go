package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/testutil"
)

func newNoteFixture() (*NoteService, *testutil.MockNoteRepository, *testutil.MockMemberRepository) {
	noteRepo := testutil.NewMockNoteRepository()
	memberRepo := testutil.NewMockMemberRepository()
	svc := NewNoteService(noteRepo, memberRepo, nil)
	return svc, noteRepo, memberRepo
}

func TestCreateNote_EmptyTitle(t *testing.T) {
	svc, _, _ := newNoteFixture()

	_, err := svc.CreateNote(context.Background(), uuid.New(), uuid.New(), CreateNoteInput{Title: " "})
	if !errors.Is(err, domain.ErrTitleRequired) {
		t.Errorf("Expected ErrTitleRequired, got %v", err)
	}
}

func TestGetNoteByID_PersonalNoteHiddenFromOthers(t *testing.T) {
	svc, noteRepo, _ := newNoteFixture()
	ctx := context.Background()

	orgID := uuid.New()
	authorID := uuid.New()
	noteID := uuid.New()
	noteRepo.AddNote(&domain.Note{
		ID:             noteID,
		OrganizationID: orgID,
		AuthorID:       authorID,
		Title:          "Journal",
		IsPersonal:     true,
	})

	if _, err := svc.GetNoteByID(ctx, orgID, authorID, noteID); err != nil {
		t.Fatalf("Expected author access, got %v", err)
	}
	if _, err := svc.GetNoteByID(ctx, orgID, uuid.New(), noteID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for stranger, got %v", err)
	}
}

func TestGetNoteByID_CollaboratorAllowed(t *testing.T) {
	svc, noteRepo, _ := newNoteFixture()
	ctx := context.Background()

	orgID := uuid.New()
	noteID := uuid.New()
	collaboratorID := uuid.New()
	noteRepo.AddNote(&domain.Note{
		ID:             noteID,
		OrganizationID: orgID,
		AuthorID:       uuid.New(),
		Title:          "Partagée",
		IsPersonal:     true,
	})
	if _, err := noteRepo.AddCollaborator(ctx, noteID, collaboratorID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.GetNoteByID(ctx, orgID, collaboratorID, noteID); err != nil {
		t.Errorf("Expected collaborator access, got %v", err)
	}
}

func TestAddCollaborator_AuthorOnly(t *testing.T) {
	svc, noteRepo, memberRepo := newNoteFixture()
	ctx := context.Background()

	orgID := uuid.New()
	noteID := uuid.New()
	targetID := uuid.New()
	noteRepo.AddNote(&domain.Note{
		ID:             noteID,
		OrganizationID: orgID,
		AuthorID:       uuid.New(),
		Title:          "Privée",
		IsPersonal:     true,
	})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: targetID, Role: domain.MemberRoleMember})

	_, err := svc.AddCollaborator(ctx, orgID, uuid.New(), noteID, targetID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestAddCollaborator_NonMemberRejected(t *testing.T) {
	svc, noteRepo, _ := newNoteFixture()
	ctx := context.Background()

	orgID := uuid.New()
	authorID := uuid.New()
	noteID := uuid.New()
	noteRepo.AddNote(&domain.Note{
		ID:             noteID,
		OrganizationID: orgID,
		AuthorID:       authorID,
		Title:          "Privée",
		IsPersonal:     true,
	})

	_, err := svc.AddCollaborator(ctx, orgID, authorID, noteID, uuid.New())
	if !errors.Is(err, domain.ErrNotAMember) {
		t.Errorf("Expected ErrNotAMember, got %v", err)
	}
}

func TestDeleteNote_AuthorOnly(t *testing.T) {
	svc, noteRepo, _ := newNoteFixture()
	ctx := context.Background()

	orgID := uuid.New()
	noteID := uuid.New()
	noteRepo.AddNote(&domain.Note{
		ID:             noteID,
		OrganizationID: orgID,
		AuthorID:       uuid.New(),
		Title:          "Protégée",
	})

	if err := svc.DeleteNote(ctx, orgID, uuid.New(), noteID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestUploadAttachment_StorageNotConfigured(t *testing.T) {
	svc, noteRepo, _ := newNoteFixture()
	ctx := context.Background()

	orgID := uuid.New()
	authorID := uuid.New()
	noteID := uuid.New()
	noteRepo.AddNote(&domain.Note{
		ID:             noteID,
		OrganizationID: orgID,
		AuthorID:       authorID,
		Title:          "Avec image",
	})

	_, err := svc.UploadAttachment(ctx, orgID, authorID, noteID, []byte("not an image"), "photo.jpg")
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("Expected ErrStorageNotConfigured, got %v", err)
	}
}
