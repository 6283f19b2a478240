package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskora/taskora-backend/internal/types"
)

func newOrgFixture() (*fakeOrgRepo, *fakeUserRepo, OrganizationService) {
	orgRepo := newFakeOrgRepo()
	userRepo := newFakeUserRepo()
	perms := NewPermissionService(orgRepo, newFakeProjectRepo())
	svc := NewOrganizationService(orgRepo, userRepo, perms, nil)
	return orgRepo, userRepo, svc
}

func TestOrganizationCreate(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, svc := newOrgFixture()

	org, err := svc.Create(ctx, "alice", "Acme", nil)
	require.NoError(t, err)
	require.NotEmpty(t, org.ID)

	member, err := orgRepo.FindMember(ctx, org.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, member, "creator should get a membership row")
	assert.Equal(t, types.OrgRoleOwner, member.Role)

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, "alice", "", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestOrganizationDelete(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, svc := newOrgFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)

	t.Run("admin cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, "bob", "org-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "alice", "org-1"))
		org, _ := orgRepo.FindByID(ctx, "org-1")
		assert.Nil(t, org)
	})
}

func TestOrganizationAddMember(t *testing.T) {
	ctx := context.Background()
	orgRepo, userRepo, svc := newOrgFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "dave", types.OrgRoleMember)
	userRepo.addUser("carol", "carol@example.com", "Carol")

	t.Run("plain member cannot add", func(t *testing.T) {
		err := svc.AddMember(ctx, "dave", "org-1", "carol", types.OrgRoleMember)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin cannot grant ownership", func(t *testing.T) {
		err := svc.AddMember(ctx, "bob", "org-1", "carol", types.OrgRoleOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		err := svc.AddMember(ctx, "bob", "org-1", "ghost", types.OrgRoleMember)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		err := svc.AddMember(ctx, "bob", "org-1", "carol", types.OrgRole("superuser"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("admin adds a member", func(t *testing.T) {
		require.NoError(t, svc.AddMember(ctx, "bob", "org-1", "carol", types.OrgRoleMember))
		member, _ := orgRepo.FindMember(ctx, "org-1", "carol")
		require.NotNil(t, member)
		assert.Equal(t, types.OrgRoleMember, member.Role)
	})

	t.Run("duplicate membership conflicts", func(t *testing.T) {
		err := svc.AddMember(ctx, "bob", "org-1", "carol", types.OrgRoleMember)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestOrganizationUpdateMemberRole(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, svc := newOrgFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "dave", types.OrgRoleMember)

	t.Run("admin promotes member to admin", func(t *testing.T) {
		require.NoError(t, svc.UpdateMemberRole(ctx, "bob", "org-1", "dave", types.OrgRoleAdmin))
		member, _ := orgRepo.FindMember(ctx, "org-1", "dave")
		assert.Equal(t, types.OrgRoleAdmin, member.Role)
	})

	t.Run("admin cannot promote to owner", func(t *testing.T) {
		err := svc.UpdateMemberRole(ctx, "bob", "org-1", "dave", types.OrgRoleOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin cannot demote an owner", func(t *testing.T) {
		err := svc.UpdateMemberRole(ctx, "bob", "org-1", "alice", types.OrgRoleMember)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("sole owner cannot be demoted", func(t *testing.T) {
		err := svc.UpdateMemberRole(ctx, "alice", "org-1", "alice", types.OrgRoleAdmin)
		assert.ErrorIs(t, err, ErrLastOwner)
	})

	t.Run("demotion works with a second owner", func(t *testing.T) {
		require.NoError(t, svc.UpdateMemberRole(ctx, "alice", "org-1", "dave", types.OrgRoleOwner))
		require.NoError(t, svc.UpdateMemberRole(ctx, "alice", "org-1", "alice", types.OrgRoleAdmin))
		member, _ := orgRepo.FindMember(ctx, "org-1", "alice")
		assert.Equal(t, types.OrgRoleAdmin, member.Role)
	})
}

func TestOrganizationRemoveMemberAndLeave(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, svc := newOrgFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "dave", types.OrgRoleMember)

	t.Run("admin cannot remove an owner", func(t *testing.T) {
		err := svc.RemoveMember(ctx, "bob", "org-1", "alice")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("sole owner cannot leave", func(t *testing.T) {
		err := svc.Leave(ctx, "alice", "org-1")
		assert.ErrorIs(t, err, ErrLastOwner)
	})

	t.Run("admin removes a member", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(ctx, "bob", "org-1", "dave"))
		member, _ := orgRepo.FindMember(ctx, "org-1", "dave")
		assert.Nil(t, member)
	})

	t.Run("removing a missing member is not found", func(t *testing.T) {
		err := svc.RemoveMember(ctx, "bob", "org-1", "dave")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-sole owner can leave", func(t *testing.T) {
		orgRepo.addMember("org-1", "erin", types.OrgRoleOwner)
		require.NoError(t, svc.Leave(ctx, "alice", "org-1"))
		member, _ := orgRepo.FindMember(ctx, "org-1", "alice")
		assert.Nil(t, member)
	})
}
