package service

import (
	"errors"

	"github.com/taskora/taskora-backend/internal/config"
	"github.com/taskora/taskora-backend/internal/db"
	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrLastOwner          = errors.New("cannot remove or demote the last owner")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	User         UserService
	Organization OrganizationService
	Project      ProjectService
	Task         TaskService
	Label        LabelService
	Attachment   AttachmentService
	Search       SearchService
	Analytics    AnalyticsService
	Permission   PermissionService
	Broadcaster  *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Redis       *db.RedisDB
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	// Permission service first: everything else consults it.
	permission := NewPermissionService(deps.Repos.OrgRepo, deps.Repos.ProjectRepo)

	return &Services{
		Auth:         NewAuthService(deps.Config, deps.Repos.UserRepo),
		User:         NewUserService(deps.Repos.UserRepo),
		Organization: NewOrganizationService(deps.Repos.OrgRepo, deps.Repos.UserRepo, permission, deps.Broadcaster),
		Project:      NewProjectService(deps.Repos.ProjectRepo, deps.Repos.OrgRepo, permission, deps.Broadcaster),
		Task:         NewTaskService(deps.Repos.TaskRepo, deps.Repos.ProjectRepo, deps.Repos.CommentRepo, deps.Repos.LabelRepo, permission, deps.Broadcaster),
		Label:        NewLabelService(deps.Repos.LabelRepo, permission),
		Attachment:   NewAttachmentService(deps.Config, deps.Repos.AttachmentRepo, deps.Repos.TaskRepo, permission),
		Search:       NewSearchService(deps.Repos.ProjectRepo, deps.Repos.TaskRepo, permission),
		Analytics:    NewAnalyticsService(deps.Repos.AnalyticsRepo, deps.Redis, permission),
		Permission:   permission,
		Broadcaster:  deps.Broadcaster,
	}
}
