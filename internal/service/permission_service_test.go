package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskora/taskora-backend/internal/types"
)

func newPermissionFixture() (*fakeOrgRepo, *fakeProjectRepo, PermissionService) {
	orgRepo := newFakeOrgRepo()
	projectRepo := newFakeProjectRepo()
	return orgRepo, projectRepo, NewPermissionService(orgRepo, projectRepo)
}

func TestResolveOrgRole(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, perms := newPermissionFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)

	t.Run("returns stored role", func(t *testing.T) {
		role, err := perms.ResolveOrgRole(ctx, "alice", "org-1")
		require.NoError(t, err)
		assert.Equal(t, types.OrgRoleOwner, role)
	})

	t.Run("non-member resolves to empty role without error", func(t *testing.T) {
		role, err := perms.ResolveOrgRole(ctx, "stranger", "org-1")
		require.NoError(t, err)
		assert.Equal(t, types.OrgRole(""), role)
	})
}

func TestResolveProjectRole(t *testing.T) {
	ctx := context.Background()
	_, projectRepo, perms := newPermissionFixture()
	lead := "carol"
	projectRepo.addProject("proj-1", "org-1", "Website", "WEB", &lead)
	projectRepo.addMember("proj-1", "bob")

	t.Run("lead pointer yields lead", func(t *testing.T) {
		role, err := perms.ResolveProjectRole(ctx, "carol", "proj-1")
		require.NoError(t, err)
		assert.Equal(t, types.ProjectRoleLead, role)
	})

	t.Run("lead pointer wins even with a membership row", func(t *testing.T) {
		projectRepo.addMember("proj-1", "carol")
		role, err := perms.ResolveProjectRole(ctx, "carol", "proj-1")
		require.NoError(t, err)
		assert.Equal(t, types.ProjectRoleLead, role)
	})

	t.Run("membership row yields member", func(t *testing.T) {
		role, err := perms.ResolveProjectRole(ctx, "bob", "proj-1")
		require.NoError(t, err)
		assert.Equal(t, types.ProjectRoleMember, role)
	})

	t.Run("no row and not lead yields empty role", func(t *testing.T) {
		role, err := perms.ResolveProjectRole(ctx, "dave", "proj-1")
		require.NoError(t, err)
		assert.Equal(t, types.ProjectRole(""), role)
	})

	t.Run("missing project yields empty role without error", func(t *testing.T) {
		role, err := perms.ResolveProjectRole(ctx, "carol", "proj-missing")
		require.NoError(t, err)
		assert.Equal(t, types.ProjectRole(""), role)
	})
}

func TestRequireOrgRole(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, perms := newPermissionFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "dave", types.OrgRoleMember)

	t.Run("succeeds at and below the held role", func(t *testing.T) {
		// owner satisfies every minimum
		for _, min := range []types.OrgRole{types.OrgRoleMember, types.OrgRoleAdmin, types.OrgRoleOwner} {
			role, err := perms.RequireOrgRole(ctx, "alice", "org-1", min)
			require.NoError(t, err, "owner should satisfy %s", min)
			assert.Equal(t, types.OrgRoleOwner, role)
		}
		// admin satisfies member and admin
		for _, min := range []types.OrgRole{types.OrgRoleMember, types.OrgRoleAdmin} {
			role, err := perms.RequireOrgRole(ctx, "bob", "org-1", min)
			require.NoError(t, err)
			assert.Equal(t, types.OrgRoleAdmin, role)
		}
	})

	t.Run("fails when role ranks below the minimum", func(t *testing.T) {
		_, err := perms.RequireOrgRole(ctx, "dave", "org-1", types.OrgRoleAdmin)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = perms.RequireOrgRole(ctx, "bob", "org-1", types.OrgRoleOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("fails for non-members", func(t *testing.T) {
		_, err := perms.RequireOrgRole(ctx, "stranger", "org-1", types.OrgRoleMember)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRequireOrgOwner(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, perms := newPermissionFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, perms.RequireOrgOwner(ctx, "alice", "org-1"))
	})

	t.Run("admin fails despite outranking member", func(t *testing.T) {
		err := perms.RequireOrgOwner(ctx, "bob", "org-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("non-member fails", func(t *testing.T) {
		err := perms.RequireOrgOwner(ctx, "stranger", "org-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestIsOrgAdmin(t *testing.T) {
	ctx := context.Background()
	orgRepo, _, perms := newPermissionFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "bob", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "dave", types.OrgRoleMember)

	assert.True(t, perms.IsOrgAdmin(ctx, "alice", "org-1"))
	assert.True(t, perms.IsOrgAdmin(ctx, "bob", "org-1"))
	assert.False(t, perms.IsOrgAdmin(ctx, "dave", "org-1"))
	assert.False(t, perms.IsOrgAdmin(ctx, "stranger", "org-1"))
}

func TestRequireProjectAccess(t *testing.T) {
	ctx := context.Background()
	orgRepo, projectRepo, perms := newPermissionFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "alice", types.OrgRoleOwner)
	orgRepo.addMember("org-1", "admin", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "plainMember", types.OrgRoleMember)
	orgRepo.addMember("org-1", "projMember", types.OrgRoleMember)
	orgRepo.addMember("org-1", "projLead", types.OrgRoleMember)

	lead := "projLead"
	projectRepo.addProject("proj-1", "org-1", "Website", "WEB", &lead)
	projectRepo.addMember("proj-1", "projMember")
	// outsider holds a project membership row but no org membership
	projectRepo.addMember("proj-1", "outsider")

	t.Run("missing project is not found", func(t *testing.T) {
		_, err := perms.RequireProjectAccess(ctx, "alice", "proj-missing", types.AccessView)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("org member without project role is forbidden even for view", func(t *testing.T) {
		_, err := perms.RequireProjectAccess(ctx, "plainMember", "proj-1", types.AccessView)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("org admin and owner pass through at every level", func(t *testing.T) {
		for _, tc := range []struct {
			user string
			role types.OrgRole
		}{
			{"admin", types.OrgRoleAdmin},
			{"alice", types.OrgRoleOwner},
		} {
			for _, level := range []types.AccessLevel{types.AccessView, types.AccessEdit, types.AccessAdmin} {
				access, err := perms.RequireProjectAccess(ctx, tc.user, "proj-1", level)
				require.NoError(t, err, "%s should pass %s", tc.user, level)
				assert.Equal(t, tc.role, access.OrgRole)
				assert.Equal(t, types.ProjectRole(""), access.ProjectRole,
					"pass-through grants carry no project role")
			}
		}
	})

	t.Run("project member can view but not edit", func(t *testing.T) {
		access, err := perms.RequireProjectAccess(ctx, "projMember", "proj-1", types.AccessView)
		require.NoError(t, err)
		assert.Equal(t, types.OrgRoleMember, access.OrgRole)
		assert.Equal(t, types.ProjectRoleMember, access.ProjectRole)

		_, err = perms.RequireProjectAccess(ctx, "projMember", "proj-1", types.AccessEdit)
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = perms.RequireProjectAccess(ctx, "projMember", "proj-1", types.AccessAdmin)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("lead without membership row passes edit", func(t *testing.T) {
		access, err := perms.RequireProjectAccess(ctx, "projLead", "proj-1", types.AccessEdit)
		require.NoError(t, err)
		assert.Equal(t, types.ProjectRoleLead, access.ProjectRole)
	})

	t.Run("project membership without org membership is forbidden", func(t *testing.T) {
		_, err := perms.RequireProjectAccess(ctx, "outsider", "proj-1", types.AccessView)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCanAccessProject(t *testing.T) {
	ctx := context.Background()
	orgRepo, projectRepo, perms := newPermissionFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "projMember", types.OrgRoleMember)
	projectRepo.addProject("proj-1", "org-1", "Website", "WEB", nil)
	projectRepo.addMember("proj-1", "projMember")

	t.Run("true with view access", func(t *testing.T) {
		assert.True(t, perms.CanAccessProject(ctx, "projMember", "proj-1"))
	})

	t.Run("forbidden collapses to false", func(t *testing.T) {
		assert.False(t, perms.CanAccessProject(ctx, "stranger", "proj-1"))
	})

	t.Run("not found collapses to false", func(t *testing.T) {
		assert.False(t, perms.CanAccessProject(ctx, "projMember", "proj-missing"))
	})
}
