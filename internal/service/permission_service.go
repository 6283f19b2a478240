package service

import (
	"context"
	"fmt"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Permission Service
// ============================================

// ProjectAccess is the result of a successful project access check. When the
// grant came through the org-admin pass-through, ProjectRole is empty: the
// user acts with organization authority, not a project role.
type ProjectAccess struct {
	OrgRole     types.OrgRole
	ProjectRole types.ProjectRole
}

// PermissionService answers "may user U do X to resource R". Resolvers report
// absence as an empty role; only the Require* methods escalate absence into
// ErrForbidden/ErrNotFound. Every call is a stateless read of current
// membership rows.
type PermissionService interface {
	// Resolvers (read-only, absence-as-value)
	ResolveOrgRole(ctx context.Context, userID, orgID string) (types.OrgRole, error)
	ResolveProjectRole(ctx context.Context, userID, projectID string) (types.ProjectRole, error)

	// Organization checks
	RequireOrgRole(ctx context.Context, userID, orgID string, minRole types.OrgRole) (types.OrgRole, error)
	RequireOrgOwner(ctx context.Context, userID, orgID string) error
	IsOrgAdmin(ctx context.Context, userID, orgID string) bool

	// Project checks
	RequireProjectAccess(ctx context.Context, userID, projectID string, level types.AccessLevel) (*ProjectAccess, error)
	CanAccessProject(ctx context.Context, userID, projectID string) bool
}

type permissionService struct {
	orgRepo     repository.OrganizationRepository
	projectRepo repository.ProjectRepository
}

func NewPermissionService(orgRepo repository.OrganizationRepository, projectRepo repository.ProjectRepository) PermissionService {
	return &permissionService{
		orgRepo:     orgRepo,
		projectRepo: projectRepo,
	}
}

// ============================================
// Resolvers
// ============================================

// ResolveOrgRole returns the user's role in the organization, or "" when no
// membership row exists. Not being a member is a normal result, not an error.
func (s *permissionService) ResolveOrgRole(ctx context.Context, userID, orgID string) (types.OrgRole, error) {
	member, err := s.orgRepo.FindMember(ctx, orgID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return member.Role, nil
}

// ResolveProjectRole returns lead when the user is the project's designated
// lead, member when a membership row exists, "" otherwise. Lead status is
// checked first and wins regardless of whether a membership row also exists.
func (s *permissionService) ResolveProjectRole(ctx context.Context, userID, projectID string) (types.ProjectRole, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", nil
	}
	if project.LeadID != nil && *project.LeadID == userID {
		return types.ProjectRoleLead, nil
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return types.ProjectRoleMember, nil
}

// ============================================
// Organization checks
// ============================================

// RequireOrgRole resolves the user's org role and fails with ErrForbidden when
// the user is not a member or the role ranks below minRole.
func (s *permissionService) RequireOrgRole(ctx context.Context, userID, orgID string, minRole types.OrgRole) (types.OrgRole, error) {
	role, err := s.ResolveOrgRole(ctx, userID, orgID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", fmt.Errorf("%w: not a member of this organization", ErrForbidden)
	}
	if types.OrgRolePriority(role) < types.OrgRolePriority(minRole) {
		return "", fmt.Errorf("%w: requires organization role %s or higher", ErrForbidden, minRole)
	}
	return role, nil
}

// RequireOrgOwner demands the owner role exactly. Owner is the single top
// rung here, not "admin or higher".
func (s *permissionService) RequireOrgOwner(ctx context.Context, userID, orgID string) error {
	role, err := s.ResolveOrgRole(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if role == "" {
		return fmt.Errorf("%w: not a member of this organization", ErrForbidden)
	}
	if role != types.OrgRoleOwner {
		return fmt.Errorf("%w: requires organization role %s", ErrForbidden, types.OrgRoleOwner)
	}
	return nil
}

func (s *permissionService) IsOrgAdmin(ctx context.Context, userID, orgID string) bool {
	role, err := s.ResolveOrgRole(ctx, userID, orgID)
	if err != nil {
		return false
	}
	return types.OrgRolePriority(role) >= types.OrgRolePriority(types.OrgRoleAdmin)
}

// ============================================
// Project checks
// ============================================

// RequireProjectAccess enforces the project access contract:
//  1. the project must exist (ErrNotFound otherwise);
//  2. the user must belong to the project's organization;
//  3. org admins and owners pass through with full access to every project
//     in their organization, no project membership needed;
//  4. everyone else needs a project role (membership row or lead pointer)
//     ranking at least the level's minimum.
func (s *permissionService) RequireProjectAccess(ctx context.Context, userID, projectID string, level types.AccessLevel) (*ProjectAccess, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	orgRole, err := s.ResolveOrgRole(ctx, userID, project.OrganizationID)
	if err != nil {
		return nil, err
	}
	if orgRole == "" {
		return nil, fmt.Errorf("%w: not a member of this organization", ErrForbidden)
	}

	if types.OrgRolePriority(orgRole) >= types.OrgRolePriority(types.OrgRoleAdmin) {
		return &ProjectAccess{OrgRole: orgRole}, nil
	}

	projectRole, err := s.resolveProjectRoleFor(ctx, userID, project)
	if err != nil {
		return nil, err
	}
	if projectRole == "" {
		return nil, fmt.Errorf("%w: not a member of this project", ErrForbidden)
	}

	minRole := types.MinProjectRoleFor(level)
	if types.ProjectRolePriority(projectRole) < types.ProjectRolePriority(minRole) {
		return nil, fmt.Errorf("%w: requires project role %s or higher", ErrForbidden, minRole)
	}

	return &ProjectAccess{OrgRole: orgRole, ProjectRole: projectRole}, nil
}

// CanAccessProject projects the view check to a boolean. ErrForbidden and
// ErrNotFound both collapse to false; callers needing the distinction use
// RequireProjectAccess directly.
func (s *permissionService) CanAccessProject(ctx context.Context, userID, projectID string) bool {
	_, err := s.RequireProjectAccess(ctx, userID, projectID, types.AccessView)
	return err == nil
}

// resolveProjectRoleFor avoids re-fetching the project when the caller
// already holds it.
func (s *permissionService) resolveProjectRoleFor(ctx context.Context, userID string, project *repository.Project) (types.ProjectRole, error) {
	if project.LeadID != nil && *project.LeadID == userID {
		return types.ProjectRoleLead, nil
	}
	member, err := s.projectRepo.FindMember(ctx, project.ID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return types.ProjectRoleMember, nil
}
