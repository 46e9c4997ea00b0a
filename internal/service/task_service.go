package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// TaskService handles task list business logic
type TaskService struct {
	taskRepo       domain.TaskRepository
	eventPublisher websocket.EventPublisher
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo domain.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TaskService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TaskService) publishEvent(organizationID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, event)
	}
}

// CreateTaskInput holds the input for creating or updating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// CreateTask appends a task at the end of the organization's list
func (s *TaskService) CreateTask(ctx context.Context, organizationID, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrNameTooLong
	}

	position, err := s.taskRepo.NextPosition(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	created, err := s.taskRepo.Create(ctx, &domain.Task{
		OrganizationID: organizationID,
		UserID:         userID,
		Title:          title,
		Description:    input.Description,
		DueDate:        input.DueDate,
		Position:       position,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeTask, created))
	return created, nil
}

// GetTasks lists an organization's tasks in display order
func (s *TaskService) GetTasks(ctx context.Context, organizationID uuid.UUID) ([]*domain.Task, error) {
	return s.taskRepo.GetByOrganization(ctx, organizationID)
}

// UpdateTask updates a task's title, description and due date
func (s *TaskService) UpdateTask(ctx context.Context, organizationID, id uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrNameTooLong
	}

	updated, err := s.taskRepo.Update(ctx, organizationID, id, &domain.UpdateTaskData{
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeTask, updated))
	return updated, nil
}

// ToggleTask flips a task's completion state
func (s *TaskService) ToggleTask(ctx context.Context, organizationID, id uuid.UUID) (*domain.Task, error) {
	updated, err := s.taskRepo.ToggleCompleted(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeTask, updated))
	return updated, nil
}

// ReorderTasks rewrites the display order to match the given ID list
func (s *TaskService) ReorderTasks(ctx context.Context, organizationID uuid.UUID, orderedIDs []uuid.UUID) ([]*domain.Task, error) {
	if len(orderedIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := s.taskRepo.Reorder(ctx, organizationID, orderedIDs); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeTask, tasks))
	return tasks, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, organizationID, id); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeTask, map[string]uuid.UUID{"id": id}))
	return nil
}
