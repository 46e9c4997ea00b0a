package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/testutil"
)

func newOrganizationFixture() (*OrganizationService, *testutil.MockOrganizationRepository, *testutil.MockMemberRepository, *testutil.MockUserRepository, *testutil.MockCategoryRepository) {
	organizationRepo := testutil.NewMockOrganizationRepository()
	memberRepo := testutil.NewMockMemberRepository()
	userRepo := testutil.NewMockUserRepository()
	organizationRepo.Members = memberRepo

	categoryRepo := testutil.NewMockCategoryRepository()
	categoryService := NewCategoryService(categoryRepo, testutil.NewMockSubCategoryRepository(), testutil.NewMockTransactionRepository())

	svc := NewOrganizationService(organizationRepo, memberRepo, userRepo, categoryService)
	return svc, organizationRepo, memberRepo, userRepo, categoryRepo
}

func TestCreateOrganization_SeedsOwnerAndDefaults(t *testing.T) {
	svc, _, memberRepo, _, categoryRepo := newOrganizationFixture()
	ctx := context.Background()

	ownerID := uuid.New()
	org, err := svc.CreateOrganization(ctx, ownerID, "Foyer Martin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	member, err := memberRepo.Get(ctx, org.ID, ownerID)
	if err != nil {
		t.Fatalf("Expected creator to be a member, got %v", err)
	}
	if member.Role != domain.MemberRoleOwner {
		t.Errorf("Expected creator role owner, got %s", member.Role)
	}
	if len(categoryRepo.Categories) != len(DefaultCategories) {
		t.Errorf("Expected %d default categories, got %d", len(DefaultCategories), len(categoryRepo.Categories))
	}
}

func TestGetOrganization_NonMemberRejected(t *testing.T) {
	svc, organizationRepo, _, _, _ := newOrganizationFixture()

	orgID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Privée"})

	_, err := svc.GetOrganization(context.Background(), orgID, uuid.New())
	if !errors.Is(err, domain.ErrNotAMember) {
		t.Errorf("Expected ErrNotAMember, got %v", err)
	}
}

func TestInviteMember_RequiresOwner(t *testing.T) {
	svc, organizationRepo, memberRepo, userRepo, _ := newOrganizationFixture()
	ctx := context.Background()

	orgID := uuid.New()
	memberID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Foyer"})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: memberID, Role: domain.MemberRoleMember})
	userRepo.AddUser(&domain.User{ID: uuid.New(), Auth0ID: "auth0|x", Email: "invitee@example.com"})

	_, err := svc.InviteMember(ctx, orgID, memberID, "invitee@example.com")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestInviteMember_Success(t *testing.T) {
	svc, organizationRepo, memberRepo, userRepo, _ := newOrganizationFixture()
	ctx := context.Background()

	orgID := uuid.New()
	ownerID := uuid.New()
	inviteeID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Foyer"})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: ownerID, Role: domain.MemberRoleOwner})
	userRepo.AddUser(&domain.User{ID: inviteeID, Auth0ID: "auth0|y", Email: "invitee@example.com"})

	member, err := svc.InviteMember(ctx, orgID, ownerID, "invitee@example.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if member.UserID != inviteeID {
		t.Errorf("Expected invited user %s, got %s", inviteeID, member.UserID)
	}
	if member.Role != domain.MemberRoleMember {
		t.Errorf("Expected role member, got %s", member.Role)
	}
}

func TestRemoveMember_LastOwnerProtected(t *testing.T) {
	svc, organizationRepo, memberRepo, _, _ := newOrganizationFixture()
	ctx := context.Background()

	orgID := uuid.New()
	ownerID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Foyer", OwnerID: ownerID})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: ownerID, Role: domain.MemberRoleOwner})

	err := svc.RemoveMember(ctx, orgID, ownerID, ownerID)
	if !errors.Is(err, domain.ErrLastOwner) {
		t.Errorf("Expected ErrLastOwner, got %v", err)
	}
}

func TestRemoveMember_MemberCanLeave(t *testing.T) {
	svc, organizationRepo, memberRepo, _, _ := newOrganizationFixture()
	ctx := context.Background()

	orgID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Foyer", OwnerID: ownerID})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: ownerID, Role: domain.MemberRoleOwner})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: memberID, Role: domain.MemberRoleMember})

	if err := svc.RemoveMember(ctx, orgID, memberID, memberID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := memberRepo.Get(ctx, orgID, memberID); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Error("Expected membership to be removed")
	}
}

func TestUpdateMemberRole_DemoteLastOwnerRejected(t *testing.T) {
	svc, organizationRepo, memberRepo, _, _ := newOrganizationFixture()
	ctx := context.Background()

	orgID := uuid.New()
	ownerID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Foyer", OwnerID: ownerID})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: ownerID, Role: domain.MemberRoleOwner})

	_, err := svc.UpdateMemberRole(ctx, orgID, ownerID, ownerID, domain.MemberRoleMember)
	if !errors.Is(err, domain.ErrLastOwner) {
		t.Errorf("Expected ErrLastOwner, got %v", err)
	}
}

func TestUpdateMemberRole_PromoteThenDemote(t *testing.T) {
	svc, organizationRepo, memberRepo, _, _ := newOrganizationFixture()
	ctx := context.Background()

	orgID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	organizationRepo.AddOrganization(&domain.Organization{ID: orgID, Name: "Foyer", OwnerID: ownerID})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: ownerID, Role: domain.MemberRoleOwner})
	memberRepo.AddMember(&domain.Member{OrganizationID: orgID, UserID: memberID, Role: domain.MemberRoleMember})

	promoted, err := svc.UpdateMemberRole(ctx, orgID, ownerID, memberID, domain.MemberRoleOwner)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if promoted.Role != domain.MemberRoleOwner {
		t.Errorf("Expected role owner, got %s", promoted.Role)
	}

	// With two owners, demoting the original one is allowed
	demoted, err := svc.UpdateMemberRole(ctx, orgID, ownerID, ownerID, domain.MemberRoleMember)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if demoted.Role != domain.MemberRoleMember {
		t.Errorf("Expected role member, got %s", demoted.Role)
	}
}
