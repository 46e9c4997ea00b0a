package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// NoteRepository implements domain.NoteRepository using PostgreSQL
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

const noteColumns = `id, organization_id, author_id, title, content, is_personal, pinned, created_at, updated_at`

// Create inserts a note
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notes (organization_id, author_id, title, content, is_personal, pinned)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+noteColumns,
		uuidToPg(note.OrganizationID), uuidToPg(note.AuthorID),
		note.Title, note.Content, note.IsPersonal, note.Pinned,
	)
	return scanNote(row)
}

// GetByID retrieves a note by ID within an organization
func (r *NoteRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Note, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// GetByOrganization lists the notes visible to a user: shared notes plus
// personal notes they authored or collaborate on. Pinned notes sort first.
func (r *NoteRepository) GetByOrganization(ctx context.Context, organizationID, userID uuid.UUID) ([]*domain.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT n.id, n.organization_id, n.author_id, n.title, n.content,
			n.is_personal, n.pinned, n.created_at, n.updated_at
		FROM notes n
		LEFT JOIN note_collaborators nc ON nc.note_id = n.id
		WHERE n.organization_id = $1
			AND (n.is_personal = FALSE OR n.author_id = $2 OR nc.user_id = $2)
		ORDER BY n.pinned DESC, n.updated_at DESC`,
		uuidToPg(organizationID), uuidToPg(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}

// Update replaces the mutable fields of a note
func (r *NoteRepository) Update(ctx context.Context, organizationID, id uuid.UUID, data *domain.UpdateNoteData) (*domain.Note, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notes
		SET title = $3, content = $4, is_personal = $5, pinned = $6, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING `+noteColumns,
		uuidToPg(organizationID), uuidToPg(id),
		data.Title, data.Content, data.IsPersonal, data.Pinned,
	)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// Delete removes a note; collaborators and attachments cascade
func (r *NoteRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notes
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// AddCollaborator grants a user access to a personal note
func (r *NoteRepository) AddCollaborator(ctx context.Context, noteID, userID uuid.UUID) (*domain.NoteCollaborator, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO note_collaborators (note_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (note_id, user_id) DO UPDATE SET note_id = EXCLUDED.note_id
		RETURNING note_id, user_id, added_at`,
		uuidToPg(noteID), uuidToPg(userID),
	)
	var (
		collab   domain.NoteCollaborator
		nID, uID pgtype.UUID
	)
	if err := row.Scan(&nID, &uID, &collab.AddedAt); err != nil {
		return nil, err
	}
	collab.NoteID = pgToUUID(nID)
	collab.UserID = pgToUUID(uID)
	return &collab, nil
}

// GetCollaborators lists a note's collaborators with user details
func (r *NoteRepository) GetCollaborators(ctx context.Context, noteID uuid.UUID) ([]*domain.NoteCollaborator, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT nc.note_id, nc.user_id, nc.added_at, u.email, u.name
		FROM note_collaborators nc
		JOIN users u ON u.id = nc.user_id
		WHERE nc.note_id = $1
		ORDER BY nc.added_at`,
		uuidToPg(noteID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.NoteCollaborator
	for rows.Next() {
		var (
			collab   domain.NoteCollaborator
			nID, uID pgtype.UUID
			name     pgtype.Text
		)
		if err := rows.Scan(&nID, &uID, &collab.AddedAt, &collab.Email, &name); err != nil {
			return nil, err
		}
		collab.NoteID = pgToUUID(nID)
		collab.UserID = pgToUUID(uID)
		collab.Name = pgTextToStringPtr(name)
		result = append(result, &collab)
	}
	return result, rows.Err()
}

// RemoveCollaborator revokes a user's access to a note
func (r *NoteRepository) RemoveCollaborator(ctx context.Context, noteID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM note_collaborators
		WHERE note_id = $1 AND user_id = $2`,
		uuidToPg(noteID), uuidToPg(userID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

const attachmentColumns = `id, note_id, object_key, thumbnail_key, content_type, size, created_at`

// AddAttachment records an uploaded attachment's object keys
func (r *NoteRepository) AddAttachment(ctx context.Context, attachment *domain.NoteAttachment) (*domain.NoteAttachment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO note_attachments (note_id, object_key, thumbnail_key, content_type, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+attachmentColumns,
		uuidToPg(attachment.NoteID), attachment.ObjectKey, attachment.ThumbnailKey,
		attachment.ContentType, attachment.Size,
	)
	return scanAttachment(row)
}

// GetAttachments lists a note's attachments
func (r *NoteRepository) GetAttachments(ctx context.Context, noteID uuid.UUID) ([]*domain.NoteAttachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attachmentColumns+`
		FROM note_attachments
		WHERE note_id = $1
		ORDER BY created_at`,
		uuidToPg(noteID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.NoteAttachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

// GetAttachment retrieves one attachment by ID
func (r *NoteRepository) GetAttachment(ctx context.Context, id uuid.UUID) (*domain.NoteAttachment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+attachmentColumns+`
		FROM note_attachments
		WHERE id = $1`,
		uuidToPg(id),
	)
	attachment, err := scanAttachment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return attachment, nil
}

// RemoveAttachment deletes an attachment record
func (r *NoteRepository) RemoveAttachment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM note_attachments
		WHERE id = $1`,
		uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var (
		note                domain.Note
		id, orgID, authorID pgtype.UUID
	)
	err := row.Scan(&id, &orgID, &authorID, &note.Title, &note.Content,
		&note.IsPersonal, &note.Pinned, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	note.ID = pgToUUID(id)
	note.OrganizationID = pgToUUID(orgID)
	note.AuthorID = pgToUUID(authorID)
	return &note, nil
}

func scanAttachment(row pgx.Row) (*domain.NoteAttachment, error) {
	var (
		attachment domain.NoteAttachment
		id, noteID pgtype.UUID
	)
	err := row.Scan(&id, &noteID, &attachment.ObjectKey, &attachment.ThumbnailKey,
		&attachment.ContentType, &attachment.Size, &attachment.CreatedAt)
	if err != nil {
		return nil, err
	}
	attachment.ID = pgToUUID(id)
	attachment.NoteID = pgToUUID(noteID)
	return &attachment, nil
}
