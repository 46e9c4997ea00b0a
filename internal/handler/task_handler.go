package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/service"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	taskService         *service.TaskService
	organizationService *service.OrganizationService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService, organizationService *service.OrganizationService) *TaskHandler {
	return &TaskHandler{
		taskService:         taskService,
		organizationService: organizationService,
	}
}

// TaskRequest represents the create/update task request body
type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// ReorderTasksRequest represents the reorder request body
type ReorderTasksRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// parseTaskRequest converts the request body into a service input. Returns
// nil when a validation response was already written.
func parseTaskRequest(c echo.Context, req *TaskRequest) (*service.CreateTaskInput, error) {
	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, NewValidationError(c, "Invalid dueDate", []ValidationError{
				{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		dueDate = &parsed
	}

	return &service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	}, nil
}

// writeTaskError maps a task operation failure to a problem response
func writeTaskError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return NewNotFoundError(c, "Task not found")
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

// CreateTask godoc
// @Summary Create a task
// @Description Create a task appended at the end of the organization's list
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body TaskRequest true "Task creation request"
// @Success 201 {object} domain.Task
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	organizationID, userID, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseTaskRequest(c, &req)
	if input == nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), organizationID, userID, *input)
	if err != nil {
		return writeTaskError(c, err, "create task")
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTasks godoc
// @Summary List tasks in display order
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Success 200 {array} domain.Task
// @Router /organizations/{orgId}/tasks [get]
func (h *TaskHandler) GetTasks(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	tasks, err := h.taskService.GetTasks(c.Request().Context(), organizationID)
	if err != nil {
		return writeTaskError(c, err, "list tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Task ID"
// @Param request body TaskRequest true "Task update request"
// @Success 200 {object} domain.Task
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseTaskRequest(c, &req)
	if input == nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), organizationID, id, *input)
	if err != nil {
		return writeTaskError(c, err, "update task")
	}

	return c.JSON(http.StatusOK, task)
}

// ToggleTask godoc
// @Summary Toggle a task's completion state
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Task ID"
// @Success 200 {object} domain.Task
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/tasks/{id}/toggle [patch]
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	task, err := h.taskService.ToggleTask(c.Request().Context(), organizationID, id)
	if err != nil {
		return writeTaskError(c, err, "toggle task")
	}

	return c.JSON(http.StatusOK, task)
}

// ReorderTasks godoc
// @Summary Reorder tasks
// @Description Persist a new display order for the organization's tasks
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param request body ReorderTasksRequest true "Ordered task IDs"
// @Success 200 {array} domain.Task
// @Failure 400 {object} ProblemDetails
// @Router /organizations/{orgId}/tasks/reorder [put]
func (h *TaskHandler) ReorderTasks(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	var req ReorderTasksRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	orderedIDs := make([]uuid.UUID, 0, len(req.TaskIDs))
	for _, idStr := range req.TaskIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "taskIds", Message: "All task IDs must be valid UUIDs"},
			})
		}
		orderedIDs = append(orderedIDs, id)
	}

	tasks, err := h.taskService.ReorderTasks(c.Request().Context(), organizationID, orderedIDs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "taskIds", Message: "At least one task ID is required"},
			})
		}
		return writeTaskError(c, err, "reorder tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Param orgId path string true "Organization ID"
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /organizations/{orgId}/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	organizationID, _, ok := requireMembership(c, h.organizationService)
	if !ok {
		return nil
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), organizationID, id); err != nil {
		return writeTaskError(c, err, "delete task")
	}

	return c.NoContent(http.StatusNoContent)
}
