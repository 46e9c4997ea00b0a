package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// EventRepository implements domain.EventRepository using PostgreSQL
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, organization_id, user_id, title, starts_at, ends_at,
	all_day, location, color, created_at, updated_at`

// Create inserts a calendar event
func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (organization_id, user_id, title, starts_at, ends_at, all_day, location, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+eventColumns,
		uuidToPg(event.OrganizationID), uuidToPg(event.UserID),
		event.Title, event.StartsAt, event.EndsAt, event.AllDay,
		stringPtrToPgText(event.Location), stringPtrToPgText(event.Color),
	)
	return scanEvent(row)
}

// GetByID retrieves an event by ID within an organization
func (r *EventRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// GetByRange lists events overlapping the [from, to] window
func (r *EventRepository) GetByRange(ctx context.Context, organizationID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE organization_id = $1 AND starts_at <= $3 AND ends_at >= $2
		ORDER BY starts_at`,
		uuidToPg(organizationID), from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

// Update replaces the mutable fields of an event
func (r *EventRepository) Update(ctx context.Context, organizationID, id uuid.UUID, data *domain.UpdateEventData) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET title = $3, starts_at = $4, ends_at = $5, all_day = $6,
			location = $7, color = $8, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING `+eventColumns,
		uuidToPg(organizationID), uuidToPg(id),
		data.Title, data.StartsAt, data.EndsAt, data.AllDay,
		stringPtrToPgText(data.Location), stringPtrToPgText(data.Color),
	)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM events
		WHERE organization_id = $1 AND id = $2`,
		uuidToPg(organizationID), uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		event             domain.Event
		id, orgID, userID pgtype.UUID
		location, color   pgtype.Text
	)
	err := row.Scan(&id, &orgID, &userID, &event.Title, &event.StartsAt, &event.EndsAt,
		&event.AllDay, &location, &color, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	event.ID = pgToUUID(id)
	event.OrganizationID = pgToUUID(orgID)
	event.UserID = pgToUUID(userID)
	event.Location = pgTextToStringPtr(location)
	event.Color = pgTextToStringPtr(color)
	return &event, nil
}
