package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// PreferenceService persists the accounting visibility filter and fans the
// change out to the user's other connected clients
type PreferenceService struct {
	preferenceRepo domain.FilterPreferenceRepository
	eventPublisher websocket.EventPublisher
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(preferenceRepo domain.FilterPreferenceRepository) *PreferenceService {
	return &PreferenceService{preferenceRepo: preferenceRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PreferenceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetFilter returns the stored visibility filter, defaulting to "all"
func (s *PreferenceService) GetFilter(ctx context.Context, userID, organizationID uuid.UUID) (*domain.FilterPreference, error) {
	pref, err := s.preferenceRepo.Get(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.FilterPreference{
				UserID:         userID,
				OrganizationID: organizationID,
				Visibility:     domain.VisibilityAll,
			}, nil
		}
		return nil, err
	}
	return pref, nil
}

// SetFilter stores the visibility filter and broadcasts the change
func (s *PreferenceService) SetFilter(ctx context.Context, userID, organizationID uuid.UUID, visibility domain.Visibility) (*domain.FilterPreference, error) {
	switch visibility {
	case domain.VisibilityAll, domain.VisibilityCommon, domain.VisibilityPersonal:
	default:
		return nil, domain.ErrInvalidVisibility
	}

	pref, err := s.preferenceRepo.Set(ctx, &domain.FilterPreference{
		UserID:         userID,
		OrganizationID: organizationID,
		Visibility:     visibility,
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, websocket.FilterChanged(pref))
	}
	return pref, nil
}
