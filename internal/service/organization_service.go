package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// OrganizationService handles organization and membership business logic
type OrganizationService struct {
	organizationRepo domain.OrganizationRepository
	memberRepo       domain.MemberRepository
	userRepo         domain.UserRepository
	categoryService  *CategoryService
	eventPublisher   websocket.EventPublisher
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(
	organizationRepo domain.OrganizationRepository,
	memberRepo domain.MemberRepository,
	userRepo domain.UserRepository,
	categoryService *CategoryService,
) *OrganizationService {
	return &OrganizationService{
		organizationRepo: organizationRepo,
		memberRepo:       memberRepo,
		userRepo:         userRepo,
		categoryService:  categoryService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *OrganizationService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *OrganizationService) publishEvent(organizationID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(organizationID, event)
	}
}

// CreateOrganization creates an organization, makes the creator its owner and
// seeds the default categories
func (s *OrganizationService) CreateOrganization(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	org, err := s.organizationRepo.Create(ctx, &domain.Organization{
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.Add(ctx, &domain.Member{
		OrganizationID: org.ID,
		UserID:         ownerID,
		Role:           domain.MemberRoleOwner,
	}); err != nil {
		return nil, err
	}

	if s.categoryService != nil {
		if err := s.categoryService.SeedDefaults(ctx, org.ID); err != nil {
			return nil, err
		}
	}

	return org, nil
}

// GetOrganizations lists the organizations a user belongs to
func (s *OrganizationService) GetOrganizations(ctx context.Context, userID uuid.UUID) ([]*domain.Organization, error) {
	return s.organizationRepo.GetByUser(ctx, userID)
}

// GetOrganization retrieves one organization, checking membership
func (s *OrganizationService) GetOrganization(ctx context.Context, organizationID, userID uuid.UUID) (*domain.Organization, error) {
	if _, err := s.memberRepo.Get(ctx, organizationID, userID); err != nil {
		return nil, domain.ErrNotAMember
	}
	return s.organizationRepo.GetByID(ctx, organizationID)
}

// RequireMembership returns the caller's membership or ErrNotAMember
func (s *OrganizationService) RequireMembership(ctx context.Context, organizationID, userID uuid.UUID) (*domain.Member, error) {
	member, err := s.memberRepo.Get(ctx, organizationID, userID)
	if err != nil {
		return nil, domain.ErrNotAMember
	}
	return member, nil
}

// UpdateOrganization renames an organization; owners only
func (s *OrganizationService) UpdateOrganization(ctx context.Context, organizationID, userID uuid.UUID, name string) (*domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	member, err := s.RequireMembership(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != domain.MemberRoleOwner {
		return nil, domain.ErrForbidden
	}

	return s.organizationRepo.Update(ctx, organizationID, name)
}

// DeleteOrganization removes an organization and all its data; owners only
func (s *OrganizationService) DeleteOrganization(ctx context.Context, organizationID, userID uuid.UUID) error {
	member, err := s.RequireMembership(ctx, organizationID, userID)
	if err != nil {
		return err
	}
	if member.Role != domain.MemberRoleOwner {
		return domain.ErrForbidden
	}
	return s.organizationRepo.Delete(ctx, organizationID)
}

// GetMembers lists an organization's members
func (s *OrganizationService) GetMembers(ctx context.Context, organizationID, userID uuid.UUID) ([]*domain.Member, error) {
	if _, err := s.RequireMembership(ctx, organizationID, userID); err != nil {
		return nil, err
	}
	return s.memberRepo.GetByOrganization(ctx, organizationID)
}

// InviteMember adds an existing user to the organization by email
func (s *OrganizationService) InviteMember(ctx context.Context, organizationID, inviterID uuid.UUID, email string) (*domain.Member, error) {
	inviter, err := s.RequireMembership(ctx, organizationID, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter.Role != domain.MemberRoleOwner {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.Add(ctx, &domain.Member{
		OrganizationID: organizationID,
		UserID:         user.ID,
		Role:           domain.MemberRoleMember,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(organizationID, websocket.EntityCreated(websocket.EntityTypeMember, member))
	return member, nil
}

// RemoveMember removes a member. The last owner can never be removed.
func (s *OrganizationService) RemoveMember(ctx context.Context, organizationID, actorID, userID uuid.UUID) error {
	actor, err := s.RequireMembership(ctx, organizationID, actorID)
	if err != nil {
		return err
	}
	// Members may leave; removing someone else requires ownership
	if actorID != userID && actor.Role != domain.MemberRoleOwner {
		return domain.ErrForbidden
	}

	target, err := s.memberRepo.Get(ctx, organizationID, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.MemberRoleOwner {
		owners, err := s.countOwners(ctx, organizationID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return domain.ErrLastOwner
		}
	}

	if err := s.memberRepo.Remove(ctx, organizationID, userID); err != nil {
		return err
	}
	s.publishEvent(organizationID, websocket.EntityDeleted(websocket.EntityTypeMember, map[string]uuid.UUID{"userId": userID}))
	return nil
}

// UpdateMemberRole promotes or demotes a member. Demoting the last owner is
// rejected.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, organizationID, actorID, userID uuid.UUID, role domain.MemberRole) (*domain.Member, error) {
	if role != domain.MemberRoleOwner && role != domain.MemberRoleMember {
		return nil, domain.ErrInvalidInput
	}

	actor, err := s.RequireMembership(ctx, organizationID, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.MemberRoleOwner {
		return nil, domain.ErrForbidden
	}

	target, err := s.memberRepo.Get(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.MemberRoleOwner && role == domain.MemberRoleMember {
		owners, err := s.countOwners(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, domain.ErrLastOwner
		}
	}

	member, err := s.memberRepo.UpdateRole(ctx, organizationID, userID, role)
	if err != nil {
		return nil, err
	}
	s.publishEvent(organizationID, websocket.EntityUpdated(websocket.EntityTypeMember, member))
	return member, nil
}

func (s *OrganizationService) countOwners(ctx context.Context, organizationID uuid.UUID) (int, error) {
	members, err := s.memberRepo.GetByOrganization(ctx, organizationID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, member := range members {
		if member.Role == domain.MemberRoleOwner {
			count++
		}
	}
	return count, nil
}
