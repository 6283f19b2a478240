package service

import (
	"context"
	"strings"

	"github.com/taskora/taskora-backend/internal/repository"
)

// ============================================
// Search Service
// ============================================

type SearchResults struct {
	Projects []*repository.Project `json:"projects"`
	Tasks    []*repository.Task    `json:"tasks"`
}

type SearchService interface {
	Search(ctx context.Context, userID, query string, limit int) (*SearchResults, error)
}

type searchService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	permission  PermissionService
}

func NewSearchService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, permission PermissionService) SearchService {
	return &searchService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		permission:  permission,
	}
}

// Search matches projects and tasks by name within the caller's
// organizations. The SQL joins limit candidates to the user's orgs; results
// are then filtered again through the policy engine so plain org members
// don't see projects they lack access to.
func (s *searchService) Search(ctx context.Context, userID, query string, limit int) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	projects, err := s.projectRepo.SearchByName(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}

	results := &SearchResults{
		Projects: []*repository.Project{},
		Tasks:    []*repository.Task{},
	}

	accessible := make(map[string]bool)
	canAccess := func(projectID string) bool {
		ok, seen := accessible[projectID]
		if seen {
			return ok
		}
		ok = s.permission.CanAccessProject(ctx, userID, projectID)
		accessible[projectID] = ok
		return ok
	}

	for _, p := range projects {
		if canAccess(p.ID) {
			results.Projects = append(results.Projects, p)
		}
	}
	for _, t := range tasks {
		if canAccess(t.ProjectID) {
			results.Tasks = append(results.Tasks, t)
		}
	}

	return results, nil
}
