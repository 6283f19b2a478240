package service

import (
	"context"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/socket"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Project Service
// ============================================

type ProjectService interface {
	Create(ctx context.Context, orgID, creatorID, name, key string, description, color, leadID *string) (*repository.Project, error)
	GetByID(ctx context.Context, userID, projectID string) (*repository.Project, error)
	ListByOrganization(ctx context.Context, userID, orgID string) ([]*repository.Project, error)
	Update(ctx context.Context, userID, projectID string, name, key, description, color, leadID *string) (*repository.Project, error)
	Delete(ctx context.Context, userID, projectID string) error

	AddMember(ctx context.Context, actorID, projectID, userID string) error
	ListMembers(ctx context.Context, userID, projectID string) ([]*repository.ProjectMember, error)
	RemoveMember(ctx context.Context, actorID, projectID, userID string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
	permission  PermissionService
	broadcaster *socket.Broadcaster
}

func NewProjectService(projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository, permission PermissionService, broadcaster *socket.Broadcaster) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
		permission:  permission,
		broadcaster: broadcaster,
	}
}

func (s *projectService) Create(ctx context.Context, orgID, creatorID, name, key string, description, color, leadID *string) (*repository.Project, error) {
	if _, err := s.permission.RequireOrgRole(ctx, creatorID, orgID, types.OrgRoleMember); err != nil {
		return nil, err
	}
	if name == "" || key == "" {
		return nil, ErrInvalidInput
	}

	existing, _ := s.projectRepo.FindByKey(ctx, key)
	if existing != nil {
		return nil, ErrConflict
	}

	// The creator leads the project unless another lead is named.
	lead := leadID
	if lead == nil {
		lead = &creatorID
	}

	project := &repository.Project{
		OrganizationID: orgID,
		Name:           name,
		Key:            key,
		Description:    description,
		Color:          color,
		LeadID:         lead,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.projectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: project.ID,
		UserID:    creatorID,
	})

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectCreated(orgID, project.ID, project.Name, creatorID)
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, userID, projectID string) (*repository.Project, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessView); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) ListByOrganization(ctx context.Context, userID, orgID string) ([]*repository.Project, error) {
	if _, err := s.permission.RequireOrgRole(ctx, userID, orgID, types.OrgRoleMember); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.FindByOrganizationID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	// Org admins see everything; members only the projects they can view.
	if s.permission.IsOrgAdmin(ctx, userID, orgID) {
		return projects, nil
	}
	visible := make([]*repository.Project, 0, len(projects))
	for _, p := range projects {
		if s.permission.CanAccessProject(ctx, userID, p.ID) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *projectService) Update(ctx context.Context, userID, projectID string, name, key, description, color, leadID *string) (*repository.Project, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessEdit); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, ErrNotFound
	}

	if name != nil {
		project.Name = *name
	}
	if key != nil {
		existing, _ := s.projectRepo.FindByKey(ctx, *key)
		if existing != nil && existing.ID != projectID {
			return nil, ErrConflict
		}
		project.Key = *key
	}

	// Nullable fields update unconditionally so they can be cleared.
	project.Description = description
	project.Color = color
	project.LeadID = leadID

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(project.OrganizationID, project.ID, userID)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessAdmin); err != nil {
		return err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return ErrNotFound
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectDeleted(project.OrganizationID, projectID, userID)
	}
	return nil
}

// AddMember records plain membership. There is no role argument: membership
// means member, and only the lead pointer elevates beyond that.
func (s *projectService) AddMember(ctx context.Context, actorID, projectID, userID string) error {
	if _, err := s.permission.RequireProjectAccess(ctx, actorID, projectID, types.AccessAdmin); err != nil {
		return err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return ErrNotFound
	}

	// The new member must already belong to the organization.
	role, err := s.permission.ResolveOrgRole(ctx, userID, project.OrganizationID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrInvalidInput
	}

	existing, _ := s.projectRepo.FindMember(ctx, projectID, userID)
	if existing != nil {
		return ErrConflict
	}

	if err := s.projectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
	}); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectMemberAdded(projectID, userID, actorID)
	}
	return nil
}

func (s *projectService) ListMembers(ctx context.Context, userID, projectID string) ([]*repository.ProjectMember, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessView); err != nil {
		return nil, err
	}
	return s.projectRepo.FindMembers(ctx, projectID)
}

func (s *projectService) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	// Members may remove themselves; removing others takes project admin.
	if actorID != userID {
		if _, err := s.permission.RequireProjectAccess(ctx, actorID, projectID, types.AccessAdmin); err != nil {
			return err
		}
	}

	existing, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectMemberRemoved(projectID, userID, actorID)
	}
	return nil
}
