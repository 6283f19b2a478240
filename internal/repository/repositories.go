package repository

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository for dependency injection.
type Repositories struct {
	UserRepo       UserRepository
	OrgRepo        OrganizationRepository
	ProjectRepo    ProjectRepository
	TaskRepo       TaskRepository
	LabelRepo      LabelRepository
	CommentRepo    CommentRepository
	AttachmentRepo AttachmentRepository
	AnalyticsRepo  AnalyticsRepository
}

func NewRepositories(pool *pgxpool.Pool, sqlDB *sql.DB) *Repositories {
	return &Repositories{
		UserRepo:       NewUserRepository(pool),
		OrgRepo:        NewOrganizationRepository(pool),
		ProjectRepo:    NewProjectRepository(pool),
		TaskRepo:       NewTaskRepository(pool),
		LabelRepo:      NewLabelRepository(pool),
		CommentRepo:    NewCommentRepository(pool),
		AttachmentRepo: NewAttachmentRepository(pool),
		AnalyticsRepo:  NewAnalyticsRepository(sqlDB),
	}
}
