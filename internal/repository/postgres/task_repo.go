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

// TaskRepository implements domain.TaskRepository using PostgreSQL
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id, organization_id, user_id, title, description, due_date,
	completed, completed_at, position, created_at, updated_at`

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (organization_id, user_id, title, description, due_date, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns,
		uuidToPg(task.OrganizationID), uuidToPg(task.UserID),
		task.Title, stringPtrToPgText(task.Description),
		timePtrToPgTimestamptz(task.DueDate), task.Position,
	)
	return scanTask(row)
}

// GetByID retrieves a task by ID within an organization
func (r *TaskRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// GetByOrganization lists an organization's tasks in display order
func (r *TaskRepository) GetByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE organization_id = $1
		ORDER BY position, created_at`,
		uuidToPg(organizationID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

// Update replaces the mutable fields of a task
func (r *TaskRepository) Update(ctx context.Context, organizationID, id uuid.UUID, data *domain.UpdateTaskData) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING `+taskColumns,
		uuidToPg(organizationID), uuidToPg(id),
		data.Title, stringPtrToPgText(data.Description), timePtrToPgTimestamptz(data.DueDate),
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// ToggleCompleted flips completion and stamps completed_at accordingly
func (r *TaskRepository) ToggleCompleted(ctx context.Context, organizationID, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET completed = NOT completed,
			completed_at = CASE WHEN completed THEN NULL ELSE NOW() END,
			updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING `+taskColumns,
		uuidToPg(organizationID), uuidToPg(id),
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Reorder rewrites positions to match the given ID order, atomically
func (r *TaskRepository) Reorder(ctx context.Context, organizationID uuid.UUID, orderedIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, id := range orderedIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE tasks
			SET position = $3, updated_at = NOW()
			WHERE organization_id = $1 AND id = $2`,
			uuidToPg(organizationID), uuidToPg(id), int32(i),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTaskNotFound
		}
	}
	return tx.Commit(ctx)
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// NextPosition returns the position for a task appended at the end of the list
func (r *TaskRepository) NextPosition(ctx context.Context, organizationID uuid.UUID) (int32, error) {
	var next int32
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(position), -1) + 1
		FROM tasks
		WHERE organization_id = $1`,
		uuidToPg(organizationID),
	).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task                 domain.Task
		id, orgID, userID    pgtype.UUID
		description          pgtype.Text
		dueDate, completedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &orgID, &userID, &task.Title, &description, &dueDate,
		&task.Completed, &completedAt, &task.Position, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	task.ID = pgToUUID(id)
	task.OrganizationID = pgToUUID(orgID)
	task.UserID = pgToUUID(userID)
	task.Description = pgTextToStringPtr(description)
	task.DueDate = pgTimestamptzToTimePtr(dueDate)
	task.CompletedAt = pgTimestamptzToTimePtr(completedAt)
	return &task, nil
}
