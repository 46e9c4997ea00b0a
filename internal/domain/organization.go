package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Organization is the tenancy boundary: every category, transaction, note,
// task and event belongs to exactly one organization.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Member struct {
	OrganizationID uuid.UUID  `json:"organizationId"`
	UserID         uuid.UUID  `json:"userId"`
	Role           MemberRole `json:"role"`
	JoinedAt       time.Time  `json:"joinedAt"`

	// Denormalized for member listings
	Email string  `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

type OrganizationRepository interface {
	Create(ctx context.Context, organization *Organization) (*Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Organization, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberRepository interface {
	Add(ctx context.Context, member *Member) (*Member, error)
	Get(ctx context.Context, organizationID, userID uuid.UUID) (*Member, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Member, error)
	UpdateRole(ctx context.Context, organizationID, userID uuid.UUID, role MemberRole) (*Member, error)
	Remove(ctx context.Context, organizationID, userID uuid.UUID) error
}
