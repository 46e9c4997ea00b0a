package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FilterPreference persists the accounting visibility filter per user and
// organization so every mounted client converges on the same view.
type FilterPreference struct {
	UserID         uuid.UUID  `json:"userId"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	Visibility     Visibility `json:"visibility"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type FilterPreferenceRepository interface {
	Get(ctx context.Context, userID, organizationID uuid.UUID) (*FilterPreference, error)
	Set(ctx context.Context, preference *FilterPreference) (*FilterPreference, error)
}
