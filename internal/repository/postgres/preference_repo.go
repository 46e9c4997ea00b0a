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

// FilterPreferenceRepository implements domain.FilterPreferenceRepository using PostgreSQL
type FilterPreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewFilterPreferenceRepository creates a new FilterPreferenceRepository
func NewFilterPreferenceRepository(pool *pgxpool.Pool) *FilterPreferenceRepository {
	return &FilterPreferenceRepository{pool: pool}
}

// Get retrieves the stored visibility filter for a user in an organization
func (r *FilterPreferenceRepository) Get(ctx context.Context, userID, organizationID uuid.UUID) (*domain.FilterPreference, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, organization_id, visibility, updated_at
		FROM filter_preferences
		WHERE user_id = $1 AND organization_id = $2`,
		uuidToPg(userID), uuidToPg(organizationID),
	)
	pref, err := scanFilterPreference(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return pref, nil
}

// Set upserts the visibility filter
func (r *FilterPreferenceRepository) Set(ctx context.Context, preference *domain.FilterPreference) (*domain.FilterPreference, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO filter_preferences (user_id, organization_id, visibility)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, organization_id) DO UPDATE
		SET visibility = EXCLUDED.visibility, updated_at = NOW()
		RETURNING user_id, organization_id, visibility, updated_at`,
		uuidToPg(preference.UserID), uuidToPg(preference.OrganizationID), string(preference.Visibility),
	)
	return scanFilterPreference(row)
}

func scanFilterPreference(row pgx.Row) (*domain.FilterPreference, error) {
	var (
		pref          domain.FilterPreference
		userID, orgID pgtype.UUID
		visibility    string
	)
	err := row.Scan(&userID, &orgID, &visibility, &pref.UpdatedAt)
	if err != nil {
		return nil, err
	}
	pref.UserID = pgToUUID(userID)
	pref.OrganizationID = pgToUUID(orgID)
	pref.Visibility = domain.Visibility(visibility)
	return &pref, nil
}
