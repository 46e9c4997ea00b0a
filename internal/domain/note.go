package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	AuthorID       uuid.UUID `json:"authorId"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	IsPersonal     bool      `json:"isPersonal"`
	Pinned         bool      `json:"pinned"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type NoteCollaborator struct {
	NoteID  uuid.UUID `json:"noteId"`
	UserID  uuid.UUID `json:"userId"`
	AddedAt time.Time `json:"addedAt"`

	Email string  `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

// NoteAttachment stores the object keys of an uploaded image; presigned URLs
// are generated on demand, never persisted.
type NoteAttachment struct {
	ID           uuid.UUID `json:"id"`
	NoteID       uuid.UUID `json:"noteId"`
	ObjectKey    string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UpdateNoteData struct {
	Title      string
	Content    string
	IsPersonal bool
	Pinned     bool
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Note, error)
	GetByOrganization(ctx context.Context, organizationID, userID uuid.UUID) ([]*Note, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, data *UpdateNoteData) (*Note, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error

	AddCollaborator(ctx context.Context, noteID, userID uuid.UUID) (*NoteCollaborator, error)
	GetCollaborators(ctx context.Context, noteID uuid.UUID) ([]*NoteCollaborator, error)
	RemoveCollaborator(ctx context.Context, noteID, userID uuid.UUID) error

	AddAttachment(ctx context.Context, attachment *NoteAttachment) (*NoteAttachment, error)
	GetAttachments(ctx context.Context, noteID uuid.UUID) ([]*NoteAttachment, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*NoteAttachment, error)
	RemoveAttachment(ctx context.Context, id uuid.UUID) error
}
