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

// OrganizationRepository implements domain.OrganizationRepository using PostgreSQL
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

const organizationColumns = `id, name, owner_id, created_at, updated_at`

// Create inserts an organization
func (r *OrganizationRepository) Create(ctx context.Context, organization *domain.Organization) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO organizations (name, owner_id)
		VALUES ($1, $2)
		RETURNING `+organizationColumns,
		organization.Name, uuidToPg(organization.OwnerID),
	)
	return scanOrganization(row)
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE id = $1`,
		uuidToPg(id),
	)
	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

// GetByUser retrieves every organization the user is a member of
func (r *OrganizationRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.name, o.owner_id, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_members m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name`,
		uuidToPg(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, org)
	}
	return result, rows.Err()
}

// Update renames an organization
func (r *OrganizationRepository) Update(ctx context.Context, id uuid.UUID, name string) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE organizations
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+organizationColumns,
		uuidToPg(id), name,
	)
	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

// Delete removes an organization and all tenant data via FK cascade
func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM organizations
		WHERE id = $1`,
		uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var (
		org         domain.Organization
		id, ownerID pgtype.UUID
	)
	err := row.Scan(&id, &org.Name, &ownerID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	org.ID = pgToUUID(id)
	org.OwnerID = pgToUUID(ownerID)
	return &org, nil
}

// MemberRepository implements domain.MemberRepository using PostgreSQL
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Add inserts a membership
func (r *MemberRepository) Add(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO organization_members (organization_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING organization_id, user_id, role, joined_at`,
		uuidToPg(member.OrganizationID), uuidToPg(member.UserID), string(member.Role),
	)
	return scanMember(row)
}

// Get retrieves one membership
func (r *MemberRepository) Get(ctx context.Context, organizationID, userID uuid.UUID) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT organization_id, user_id, role, joined_at
		FROM organization_members
		WHERE organization_id = $1 AND user_id = $2`,
		uuidToPg(organizationID), uuidToPg(userID),
	)
	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetByOrganization lists all members with their user details
func (r *MemberRepository) GetByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.organization_id, m.user_id, m.role, m.joined_at, u.email, u.name
		FROM organization_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.joined_at`,
		uuidToPg(organizationID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Member
	for rows.Next() {
		var (
			member        domain.Member
			orgID, userID pgtype.UUID
			role          string
			name          pgtype.Text
		)
		if err := rows.Scan(&orgID, &userID, &role, &member.JoinedAt, &member.Email, &name); err != nil {
			return nil, err
		}
		member.OrganizationID = pgToUUID(orgID)
		member.UserID = pgToUUID(userID)
		member.Role = domain.MemberRole(role)
		member.Name = pgTextToStringPtr(name)
		result = append(result, &member)
	}
	return result, rows.Err()
}

// UpdateRole changes a member's role
func (r *MemberRepository) UpdateRole(ctx context.Context, organizationID, userID uuid.UUID, role domain.MemberRole) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE organization_members
		SET role = $3
		WHERE organization_id = $1 AND user_id = $2
		RETURNING organization_id, user_id, role, joined_at`,
		uuidToPg(organizationID), uuidToPg(userID), string(role),
	)
	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// Remove deletes a membership
func (r *MemberRepository) Remove(ctx context.Context, organizationID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM organization_members
		WHERE organization_id = $1 AND user_id = $2`,
		uuidToPg(organizationID), uuidToPg(userID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var (
		member        domain.Member
		orgID, userID pgtype.UUID
		role          string
	)
	err := row.Scan(&orgID, &userID, &role, &member.JoinedAt)
	if err != nil {
		return nil, err
	}
	member.OrganizationID = pgToUUID(orgID)
	member.UserID = pgToUUID(userID)
	member.Role = domain.MemberRole(role)
	return &member, nil
}
