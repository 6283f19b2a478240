package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskora/taskora-backend/internal/types"
)

func newProjectFixture() (*fakeOrgRepo, *fakeProjectRepo, ProjectService) {
	orgRepo := newFakeOrgRepo()
	projectRepo := newFakeProjectRepo()
	perms := NewPermissionService(orgRepo, projectRepo)
	svc := NewProjectService(projectRepo, orgRepo, perms, nil)
	return orgRepo, projectRepo, svc
}

func TestProjectCreate(t *testing.T) {
	ctx := context.Background()
	orgRepo, projectRepo, svc := newProjectFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "carol", types.OrgRoleMember)

	t.Run("creator becomes lead and member by default", func(t *testing.T) {
		project, err := svc.Create(ctx, "org-1", "carol", "Website", "WEB", nil, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, project.LeadID)
		assert.Equal(t, "carol", *project.LeadID)

		member, _ := projectRepo.FindMember(ctx, project.ID, "carol")
		assert.NotNil(t, member)
	})

	t.Run("duplicate key conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, "org-1", "carol", "Website Again", "WEB", nil, nil, nil)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("non-member cannot create", func(t *testing.T) {
		_, err := svc.Create(ctx, "org-1", "stranger", "Mobile", "MOB", nil, nil, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("explicit lead is honored", func(t *testing.T) {
		orgRepo.addMember("org-1", "bob", types.OrgRoleMember)
		bob := "bob"
		project, err := svc.Create(ctx, "org-1", "carol", "Mobile", "MOB", nil, nil, &bob)
		require.NoError(t, err)
		assert.Equal(t, "bob", *project.LeadID)
	})
}

func TestProjectListByOrganization(t *testing.T) {
	ctx := context.Background()
	orgRepo, projectRepo, svc := newProjectFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "admin", types.OrgRoleAdmin)
	orgRepo.addMember("org-1", "bob", types.OrgRoleMember)
	projectRepo.addProject("proj-1", "org-1", "Website", "WEB", nil)
	projectRepo.addProject("proj-2", "org-1", "Mobile", "MOB", nil)
	projectRepo.addMember("proj-1", "bob")

	t.Run("org admin sees every project", func(t *testing.T) {
		projects, err := svc.ListByOrganization(ctx, "admin", "org-1")
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	t.Run("member sees only projects they can view", func(t *testing.T) {
		projects, err := svc.ListByOrganization(ctx, "bob", "org-1")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "proj-1", projects[0].ID)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		_, err := svc.ListByOrganization(ctx, "stranger", "org-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestProjectAddMember(t *testing.T) {
	ctx := context.Background()
	orgRepo, projectRepo, svc := newProjectFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "carol", types.OrgRoleMember)
	orgRepo.addMember("org-1", "bob", types.OrgRoleMember)
	lead := "carol"
	projectRepo.addProject("proj-1", "org-1", "Website", "WEB", &lead)

	t.Run("lead adds an org member", func(t *testing.T) {
		require.NoError(t, svc.AddMember(ctx, "carol", "proj-1", "bob"))
		member, _ := projectRepo.FindMember(ctx, "proj-1", "bob")
		assert.NotNil(t, member)
	})

	t.Run("duplicate membership conflicts", func(t *testing.T) {
		err := svc.AddMember(ctx, "carol", "proj-1", "bob")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("candidate outside the org rejected", func(t *testing.T) {
		err := svc.AddMember(ctx, "carol", "proj-1", "stranger")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("plain project member cannot add", func(t *testing.T) {
		orgRepo.addMember("org-1", "dave", types.OrgRoleMember)
		err := svc.AddMember(ctx, "bob", "proj-1", "dave")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestProjectDelete(t *testing.T) {
	ctx := context.Background()
	orgRepo, projectRepo, svc := newProjectFixture()
	orgRepo.addOrg("org-1", "Acme")
	orgRepo.addMember("org-1", "carol", types.OrgRoleMember)
	orgRepo.addMember("org-1", "bob", types.OrgRoleMember)
	lead := "carol"
	projectRepo.addProject("proj-1", "org-1", "Website", "WEB", &lead)
	projectRepo.addMember("proj-1", "bob")

	t.Run("member cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, "bob", "proj-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("lead deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "carol", "proj-1"))
		project, _ := projectRepo.FindByID(ctx, "proj-1")
		assert.Nil(t, project)
	})
}
