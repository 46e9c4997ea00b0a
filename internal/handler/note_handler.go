package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// NoteHandler handles note, collaborator and attachment HTTP requests
type NoteHandler struct {
	noteService         *service.NoteService
	organizationService *service.OrganizationService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *service.NoteService, organizationService *service.OrganizationService) *NoteHandler {
	return &NoteHandler{
		noteService:         noteService,
		organizationService: organizationService,
	}
}

// NoteRequest represents the create/update note request body
type NoteRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsPersonal bool   `json:"isPersonal"`
	Pinned     bool   `json:"pinned"`
}

// AddCollaboratorRequest represents the add collaborator request body
type AddCollaboratorRequest struct {
	UserID string `json:"userId"`
}

// writeNoteError maps a note operation failure to a problem response
func writeNoteError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		return NewNotFoundError(c, "Note not found")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "No access to this note")
	case errors.Is(err, domain.ErrTitleRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title must be 255 characters or less"},
		})
	}
	log.Error().Err(err).Msg("Failed to " + what)
	return NewInternalError(c, "Failed to "+what)
}

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body NoteRequest true "Note creation request"
// @Success 201 {object} domain.Note
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	note, err := h.noteService.CreateNote(c.Request().Context(), organizationID, userID, service.CreateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		IsPersonal: req.IsPersonal,
		Pinned:     req.Pinned,
	})
	if err != nil {
		return writeNoteError(c, err, "create note")
	}

	return c.JSON(http.StatusCreated, note)
}

// GetNotes godoc
// @Summary List notes visible to the caller
// @Description Common notes plus personal notes the caller authored or collaborates on, pinned first
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Success 200 {array} domain.Note
// @Router /organizations/{orgId}/notes [get]
func (h *NoteHandler) GetNotes(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	notes, err := h.noteService.GetNotes(c.Request().Context(), organizationID, userID)
	if err != nil {
		return writeNoteError(c, err, "list notes")
	}

	return c.JSON(http.StatusOK, notes)
}

// GetNote godoc
// @Summary Get a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Success 200 {object} domain.Note
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id} [get]
func (h *NoteHandler) GetNote(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	note, err := h.noteService.GetNoteByID(c.Request().Context(), organizationID, userID, id)
	if err != nil {
		return writeNoteError(c, err, "get note")
	}

	return c.JSON(http.StatusOK, note)
}

// UpdateNote godoc
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Param request body NoteRequest true "Note update request"
// @Success 200 {object} domain.Note
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	note, err := h.noteService.UpdateNote(c.Request().Context(), organizationID, userID, id, service.CreateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		IsPersonal: req.IsPersonal,
		Pinned:     req.Pinned,
	})
	if err != nil {
		return writeNoteError(c, err, "update note")
	}

	return c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Delete a note and its attachments; author only
// @Tags notes
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.noteService.DeleteNote(c.Request().Context(), organizationID, userID, id); err != nil {
		return writeNoteError(c, err, "delete note")
	}

	return c.NoContent(http.StatusNoContent)
}

// AddCollaborator godoc
// @Summary Share a personal note with another member
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Param request body AddCollaboratorRequest true "Collaborator request"
// @Success 201 {object} domain.NoteCollaborator
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id}/collaborators [post]
func (h *NoteHandler) AddCollaborator(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req AddCollaboratorRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "userId", Message: "Must be a valid UUID"},
		})
	}

	collaborator, err := h.noteService.AddCollaborator(c.Request().Context(), organizationID, userID, noteID, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotAMember) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "userId", Message: "User is not a member of the organization"},
			})
		}
		return writeNoteError(c, err, "add collaborator")
	}

	return c.JSON(http.StatusCreated, collaborator)
}

// GetCollaborators godoc
// @Summary List a note's collaborators
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Success 200 {array} domain.NoteCollaborator
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id}/collaborators [get]
func (h *NoteHandler) GetCollaborators(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	collaborators, err := h.noteService.GetCollaborators(c.Request().Context(), organizationID, userID, noteID)
	if err != nil {
		return writeNoteError(c, err, "list collaborators")
	}

	return c.JSON(http.StatusOK, collaborators)
}

// RemoveCollaborator godoc
// @Summary Remove a collaborator from a note
// @Tags notes
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Param userId path string true "Collaborator user ID"
// @Success 204
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id}/collaborators/{userId} [delete]
func (h *NoteHandler) RemoveCollaborator(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return nil
	}

	if err := h.noteService.RemoveCollaborator(c.Request().Context(), organizationID, userID, noteID, targetID); err != nil {
		return writeNoteError(c, err, "remove collaborator")
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadAttachment godoc
// @Summary Upload an image attachment
// @Description Upload an image to a note; a thumbnail is generated and both are stored
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Param file formData file true "Image file (JPEG, PNG, GIF or WebP, max 5MB)"
// @Success 201 {object} service.AttachmentView
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id}/attachments [post]
func (h *NoteHandler) UploadAttachment(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	attachment, err := h.noteService.UploadAttachment(c.Request().Context(), organizationID, userID, noteID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageNotConfigured):
			return NewServiceUnavailableError(c, "Attachment uploads are disabled (storage not configured)")
		case errors.Is(err, service.ErrAttachmentTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidAttachmentFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, GIF, WebP"},
			})
		case errors.Is(err, service.ErrInvalidAttachmentData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		}
		return writeNoteError(c, err, "upload attachment")
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Str("note_id", noteID.String()).
		Str("attachment_id", attachment.ID.String()).
		Msg("Attachment uploaded")

	return c.JSON(http.StatusCreated, attachment)
}

// GetAttachments godoc
// @Summary List a note's attachments with presigned URLs
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Note ID"
// @Success 200 {array} service.AttachmentView
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/notes/{id}/attachments [get]
func (h *NoteHandler) GetAttachments(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	attachments, err := h.noteService.GetAttachments(c.Request().Context(), organizationID, userID, noteID)
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			return NewServiceUnavailableError(c, "Attachments are disabled (storage not configured)")
		}
		return writeNoteError(c, err, "list attachments")
	}

	return c.JSON(http.StatusOK, attachments)
}

// DeleteAttachment godoc
// @Summary Delete an attachment
// @Tags attachments
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/attachments/{attachmentId} [delete]
func (h *NoteHandler) DeleteAttachment(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		return nil
	}

	if err := h.noteService.DeleteAttachment(c.Request().Context(), organizationID, userID, attachmentID); err != nil {
		if errors.Is(err, domain.ErrAttachmentNotFound) {
			return NewNotFoundError(c, "Attachment not found")
		}
		return writeNoteError(c, err, "delete attachment")
	}

	return c.NoContent(http.StatusNoContent)
}
