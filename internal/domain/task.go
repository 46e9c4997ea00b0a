package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	UserID         uuid.UUID  `json:"userId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Position       int32      `json:"position"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type UpdateTaskData struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Task, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Task, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, data *UpdateTaskData) (*Task, error)
	ToggleCompleted(ctx context.Context, organizationID, id uuid.UUID) (*Task, error)
	Reorder(ctx context.Context, organizationID uuid.UUID, orderedIDs []uuid.UUID) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	NextPosition(ctx context.Context, organizationID uuid.UUID) (int32, error)
}
