package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Dashboard aggregates. These are produced by GROUP BY queries, not by
// loading rows into memory.

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type PriorityCount struct {
	Priority string `db:"priority" json:"priority"`
	Count    int    `db:"count" json:"count"`
}

type ProjectTaskCount struct {
	ProjectID   string `db:"project_id" json:"projectId"`
	ProjectName string `db:"project_name" json:"projectName"`
	Total       int    `db:"total" json:"total"`
	Done        int    `db:"done" json:"done"`
}

type OrgDashboard struct {
	OrganizationID  string             `json:"organizationId"`
	MemberCount     int                `json:"memberCount"`
	ProjectCount    int                `json:"projectCount"`
	TasksByStatus   []StatusCount      `json:"tasksByStatus"`
	OverdueTasks    int                `json:"overdueTasks"`
	CompletedLast30 int                `json:"completedLast30Days"`
	Projects        []ProjectTaskCount `json:"projects"`
}

type ProjectDashboard struct {
	ProjectID       string          `json:"projectId"`
	TotalTasks      int             `json:"totalTasks"`
	TasksByStatus   []StatusCount   `json:"tasksByStatus"`
	TasksByPriority []PriorityCount `json:"tasksByPriority"`
	OverdueTasks    int             `json:"overdueTasks"`
	UnassignedTasks int             `json:"unassignedTasks"`
	CompletedLast30 int             `json:"completedLast30Days"`
}

type AnalyticsRepository interface {
	OrgDashboard(ctx context.Context, orgID string) (*OrgDashboard, error)
	ProjectDashboard(ctx context.Context, projectID string) (*ProjectDashboard, error)
}

type sqlxAnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &sqlxAnalyticsRepository{db: sqlx.NewDb(db, "pgx")}
}

func (r *sqlxAnalyticsRepository) OrgDashboard(ctx context.Context, orgID string) (*OrgDashboard, error) {
	d := &OrgDashboard{OrganizationID: orgID}

	err := r.db.GetContext(ctx, &d.MemberCount,
		`SELECT COUNT(*) FROM organization_members WHERE organization_id = $1`, orgID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.ProjectCount,
		`SELECT COUNT(*) FROM projects WHERE organization_id = $1`, orgID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &d.TasksByStatus, `
		SELECT t.status, COUNT(*) AS count
		FROM tasks t
		JOIN projects p ON t.project_id = p.id
		WHERE p.organization_id = $1
		GROUP BY t.status
	`, orgID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.OverdueTasks, `
		SELECT COUNT(*)
		FROM tasks t
		JOIN projects p ON t.project_id = p.id
		WHERE p.organization_id = $1 AND t.due_date < NOW() AND t.status != 'done'
	`, orgID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.CompletedLast30, `
		SELECT COUNT(*)
		FROM tasks t
		JOIN projects p ON t.project_id = p.id
		WHERE p.organization_id = $1 AND t.completed_at > NOW() - INTERVAL '30 days'
	`, orgID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &d.Projects, `
		SELECT p.id AS project_id, p.name AS project_name,
		       COUNT(t.id) AS total,
		       COUNT(t.id) FILTER (WHERE t.status = 'done') AS done
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE p.organization_id = $1
		GROUP BY p.id, p.name
		ORDER BY p.name
	`, orgID)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (r *sqlxAnalyticsRepository) ProjectDashboard(ctx context.Context, projectID string) (*ProjectDashboard, error) {
	d := &ProjectDashboard{ProjectID: projectID}

	err := r.db.GetContext(ctx, &d.TotalTasks,
		`SELECT COUNT(*) FROM tasks WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &d.TasksByStatus, `
		SELECT status, COUNT(*) AS count
		FROM tasks WHERE project_id = $1
		GROUP BY status
	`, projectID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &d.TasksByPriority, `
		SELECT priority, COUNT(*) AS count
		FROM tasks WHERE project_id = $1
		GROUP BY priority
	`, projectID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.OverdueTasks, `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = $1 AND due_date < NOW() AND status != 'done'
	`, projectID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.UnassignedTasks, `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = $1 AND assignee_id IS NULL AND status != 'done'
	`, projectID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.CompletedLast30, `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = $1 AND completed_at > NOW() - INTERVAL '30 days'
	`, projectID)
	if err != nil {
		return nil, err
	}

	return d, nil
}
