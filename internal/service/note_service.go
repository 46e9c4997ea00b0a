package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/repository/storage"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

const (
	MaxAttachmentSize = 5 * 1024 * 1024 // 5MB
	ThumbnailWidth    = 200
	JPEGQuality       = 85
	PresignExpiry     = 15 * time.Minute
)

var (
	ErrAttachmentTooLarge      = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidAttachmentFormat = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrInvalidAttachmentData   = errors.New("invalid image data")
	ErrStorageNotConfigured    = errors.New("attachment storage not configured")
)

// allowedExtensions maps extensions to content types
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AttachmentView carries an attachment with its presigned URLs
type AttachmentView struct {
	domain.NoteAttachment
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// NoteService handles notes, collaborators and image attachments
type NoteService struct {
	noteRepo       domain.NoteRepository
	memberRepo     domain.MemberRepository
	store          storage.ObjectStore
	eventPublisher websocket.EventPublisher
}

// NewNoteService creates a new NoteService. The object store may be nil when
// attachment storage is not configured.
func NewNoteService(noteRepo domain.NoteRepository, memberRepo domain.MemberRepository, store storage.ObjectStore) *NoteService {
	return &NoteService{
		noteRepo:   noteRepo,
		memberRepo: memberRepo,
		store:      store,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *NoteService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *NoteService) publishEvent(organizationID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, event)
	}
}

// CreateNoteInput holds the input for creating or updating a note
type CreateNoteInput struct {
	Title      string
	Content    string
	IsPersonal bool
	Pinned     bool
}

// CreateNote creates a note
func (s *NoteService) CreateNote(ctx context.Context, organizationID, authorID uuid.UUID, input CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrNameTooLong
	}

	created, err := s.noteRepo.Create(ctx, &domain.Note{
		OrganizationID: organizationID,
		AuthorID:       authorID,
		Title:          title,
		Content:        input.Content,
		IsPersonal:     input.IsPersonal,
		Pinned:         input.Pinned,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeNote, created))
	return created, nil
}

// GetNotes lists the notes visible to a user
func (s *NoteService) GetNotes(ctx context.Context, organizationID, userID uuid.UUID) ([]*domain.Note, error) {
	return s.noteRepo.GetByOrganization(ctx, organizationID, userID)
}

// GetNoteByID retrieves a note, enforcing personal-note visibility
func (s *NoteService) GetNoteByID(ctx context.Context, organizationID, userID, id uuid.UUID) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkNoteAccess(ctx, note, userID); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote updates a note; only the author or a collaborator may edit
func (s *NoteService) UpdateNote(ctx context.Context, organizationID, userID, id uuid.UUID, input CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrNameTooLong
	}

	note, err := s.noteRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkNoteAccess(ctx, note, userID); err != nil {
		return nil, err
	}

	updated, err := s.noteRepo.Update(ctx, organizationID, id, &domain.UpdateNoteData{
		Title:      title,
		Content:    input.Content,
		IsPersonal: input.IsPersonal,
		Pinned:     input.Pinned,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeNote, updated))
	return updated, nil
}

// DeleteNote removes a note and its stored attachments; author only
func (s *NoteService) DeleteNote(ctx context.Context, organizationID, userID, id uuid.UUID) error {
	note, err := s.noteRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return domain.ErrForbidden
	}

	// Best-effort blob cleanup before the rows cascade away
	if s.store != nil {
		attachments, err := s.noteRepo.GetAttachments(ctx, id)
		if err == nil {
			for _, attachment := range attachments {
				_ = s.store.Delete(ctx, attachment.ObjectKey)
				_ = s.store.Delete(ctx, attachment.ThumbnailKey)
			}
		}
	}

	if err := s.noteRepo.Delete(ctx, organizationID, id); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeNote, map[string]uuid.UUID{"id": id}))
	return nil
}

// AddCollaborator grants an organization member access to a personal note
func (s *NoteService) AddCollaborator(ctx context.Context, organizationID, actorID, noteID, userID uuid.UUID) (*domain.NoteCollaborator, error) {
	note, err := s.noteRepo.GetByID(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}
	if _, err := s.memberRepo.Get(ctx, organizationID, userID); err != nil {
		return nil, domain.ErrNotAMember
	}

	collab, err := s.noteRepo.AddCollaborator(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeNote, note))
	return collab, nil
}

// GetCollaborators lists a note's collaborators
func (s *NoteService) GetCollaborators(ctx context.Context, organizationID, userID, noteID uuid.UUID) ([]*domain.NoteCollaborator, error) {
	note, err := s.noteRepo.GetByID(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNoteAccess(ctx, note, userID); err != nil {
		return nil, err
	}
	return s.noteRepo.GetCollaborators(ctx, noteID)
}

// RemoveCollaborator revokes access; author only
func (s *NoteService) RemoveCollaborator(ctx context.Context, organizationID, actorID, noteID, userID uuid.UUID) error {
	note, err := s.noteRepo.GetByID(ctx, organizationID, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != actorID {
		return domain.ErrForbidden
	}
	if err := s.noteRepo.RemoveCollaborator(ctx, noteID, userID); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeNote, note))
	return nil
}

// UploadAttachment validates an image, stores the original plus a thumbnail
// and records the attachment
func (s *NoteService) UploadAttachment(ctx context.Context, organizationID, userID, noteID uuid.UUID, data []byte, filename string) (*AttachmentView, error) {
	if s.store == nil {
		return nil, ErrStorageNotConfigured
	}

	note, err := s.noteRepo.GetByID(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNoteAccess(ctx, note, userID); err != nil {
		return nil, err
	}

	if len(data) > MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return nil, ErrInvalidAttachmentFormat
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidAttachmentData
	}

	attachmentID := uuid.New()
	objectKey := attachmentKey(organizationID, noteID, attachmentID, "original", ext)
	thumbnailKey := attachmentKey(organizationID, noteID, attachmentID, "thumb", ".jpg")

	if _, err := s.store.Upload(ctx, objectKey, bytes.NewReader(data), contentType, int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	thumbnail := img
	if img.Bounds().Dx() > ThumbnailWidth {
		thumbnail = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		_ = s.store.Delete(ctx, objectKey)
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if _, err := s.store.Upload(ctx, thumbnailKey, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		_ = s.store.Delete(ctx, objectKey)
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	created, err := s.noteRepo.AddAttachment(ctx, &domain.NoteAttachment{
		ID:           attachmentID,
		NoteID:       noteID,
		ObjectKey:    objectKey,
		ThumbnailKey: thumbnailKey,
		ContentType:  contentType,
		Size:         int64(len(data)),
	})
	if err != nil {
		_ = s.store.Delete(ctx, objectKey)
		_ = s.store.Delete(ctx, thumbnailKey)
		return nil, err
	}

	view, err := s.attachmentView(ctx, created)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeNote, note))
	return view, nil
}

// GetAttachments lists a note's attachments with presigned URLs
func (s *NoteService) GetAttachments(ctx context.Context, organizationID, userID, noteID uuid.UUID) ([]*AttachmentView, error) {
	note, err := s.noteRepo.GetByID(ctx, organizationID, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNoteAccess(ctx, note, userID); err != nil {
		return nil, err
	}

	attachments, err := s.noteRepo.GetAttachments(ctx, noteID)
	if err != nil {
		return nil, err
	}

	views := make([]*AttachmentView, 0, len(attachments))
	for _, attachment := range attachments {
		view, err := s.attachmentView(ctx, attachment)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// DeleteAttachment removes an attachment record and its blobs
func (s *NoteService) DeleteAttachment(ctx context.Context, organizationID, userID, attachmentID uuid.UUID) error {
	attachment, err := s.noteRepo.GetAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}
	note, err := s.noteRepo.GetByID(ctx, organizationID, attachment.NoteID)
	if err != nil {
		return err
	}
	if err := s.checkNoteAccess(ctx, note, userID); err != nil {
		return err
	}

	if err := s.noteRepo.RemoveAttachment(ctx, attachmentID); err != nil {
		return err
	}
	if s.store != nil {
		_ = s.store.Delete(ctx, attachment.ObjectKey)
		_ = s.store.Delete(ctx, attachment.ThumbnailKey)
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeNote, note))
	return nil
}

func (s *NoteService) attachmentView(ctx context.Context, attachment *domain.NoteAttachment) (*AttachmentView, error) {
	if s.store == nil {
		return &AttachmentView{NoteAttachment: *attachment}, nil
	}
	url, err := s.store.GeneratePresignedURL(ctx, attachment.ObjectKey, PresignExpiry)
	if err != nil {
		return nil, err
	}
	thumbnailURL, err := s.store.GeneratePresignedURL(ctx, attachment.ThumbnailKey, PresignExpiry)
	if err != nil {
		return nil, err
	}
	return &AttachmentView{
		NoteAttachment: *attachment,
		URL:            url,
		ThumbnailURL:   thumbnailURL,
	}, nil
}

// checkNoteAccess enforces that personal notes are only visible to their
// author and collaborators
func (s *NoteService) checkNoteAccess(ctx context.Context, note *domain.Note, userID uuid.UUID) error {
	if !note.IsPersonal || note.AuthorID == userID {
		return nil
	}
	collabs, err := s.noteRepo.GetCollaborators(ctx, note.ID)
	if err != nil {
		return err
	}
	for _, collab := range collabs {
		if collab.UserID == userID {
			return nil
		}
	}
	return domain.ErrForbidden
}

func attachmentKey(organizationID, noteID, attachmentID uuid.UUID, variant, ext string) string {
	return fmt.Sprintf("%s/notes/%s/%s_%s%s", organizationID, noteID, attachmentID, variant, ext)
}
