package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Key            string
	Description    *string
	Color          *string
	LeadID         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProjectMember has no role column. Membership itself means member; the
// project's lead_id pointer is what elevates a user to lead.
type ProjectMember struct {
	ID        string
	ProjectID string
	UserID    string
	JoinedAt  time.Time
	User      *User
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByOrganizationID(ctx context.Context, orgID string) ([]*Project, error)
	FindByKey(ctx context.Context, key string) (*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, member *ProjectMember) error
	FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error)
	FindMember(ctx context.Context, projectID, userID string) (*ProjectMember, error)
	FindMemberUserIDs(ctx context.Context, projectID string) ([]string, error)
	RemoveMember(ctx context.Context, projectID, userID string) error
	GetNextTaskNumber(ctx context.Context, projectID string) (int, error)
	SearchByName(ctx context.Context, userID, query string, limit int) ([]*Project, error)
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (organization_id, name, key, description, color, lead_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.OrganizationID, project.Name, project.Key,
		project.Description, project.Color, project.LeadID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, organization_id, name, key, description, color, lead_id, created_at, updated_at
		FROM projects WHERE id = $1
	`
	p := &Project{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Key, &p.Description,
		&p.Color, &p.LeadID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProjectRepository) FindByOrganizationID(ctx context.Context, orgID string) ([]*Project, error) {
	query := `
		SELECT id, organization_id, name, key, description, color, lead_id, created_at, updated_at
		FROM projects
		WHERE organization_id = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *pgProjectRepository) FindByKey(ctx context.Context, key string) (*Project, error) {
	query := `
		SELECT id, organization_id, name, key, description, color, lead_id, created_at, updated_at
		FROM projects WHERE key = $1
	`
	p := &Project{}
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Key, &p.Description,
		&p.Color, &p.LeadID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $2, key = $3, description = $4, color = $5, lead_id = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID, project.Name, project.Key, project.Description,
		project.Color, project.LeadID,
	)
	return err
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgProjectRepository) AddMember(ctx context.Context, member *ProjectMember) error {
	query := `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
		RETURNING id, joined_at
	`
	err := r.pool.QueryRow(ctx, query, member.ProjectID, member.UserID).
		Scan(&member.ID, &member.JoinedAt)
	if err == pgx.ErrNoRows {
		// Row already existed; nothing to do.
		return nil
	}
	return err
}

func (r *pgProjectRepository) FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error) {
	query := `
		SELECT pm.id, pm.project_id, pm.user_id, pm.joined_at,
		       u.id, u.email, u.name, u.avatar
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*ProjectMember
	for rows.Next() {
		m := &ProjectMember{User: &User{}}
		if err := rows.Scan(
			&m.ID, &m.ProjectID, &m.UserID, &m.JoinedAt,
			&m.User.ID, &m.User.Email, &m.User.Name, &m.User.Avatar,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *pgProjectRepository) FindMember(ctx context.Context, projectID, userID string) (*ProjectMember, error) {
	query := `
		SELECT id, project_id, user_id, joined_at
		FROM project_members WHERE project_id = $1 AND user_id = $2
	`
	m := &ProjectMember{}
	err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(
		&m.ID, &m.ProjectID, &m.UserID, &m.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgProjectRepository) FindMemberUserIDs(ctx context.Context, projectID string) ([]string, error) {
	query := `SELECT user_id FROM project_members WHERE project_id = $1`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *pgProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	query := `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, projectID, userID)
	return err
}

func (r *pgProjectRepository) GetNextTaskNumber(ctx context.Context, projectID string) (int, error) {
	query := `SELECT COUNT(*) + 1 FROM tasks WHERE project_id = $1`
	var next int
	if err := r.pool.QueryRow(ctx, query, projectID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// SearchByName returns projects matching the query among organizations the
// user belongs to. The membership join keeps results inside the caller's orgs;
// per-project access is still checked by the caller.
func (r *pgProjectRepository) SearchByName(ctx context.Context, userID, query string, limit int) ([]*Project, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `
		SELECT DISTINCT p.id, p.organization_id, p.name, p.key, p.description, p.color, p.lead_id, p.created_at, p.updated_at
		FROM projects p
		JOIN organization_members om ON p.organization_id = om.organization_id
		WHERE om.user_id = $1 AND (p.name ILIKE '%' || $2 || '%' OR p.key ILIKE '%' || $2 || '%')
		ORDER BY p.name
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, sql, userID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjects(rows pgx.Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.Name, &p.Key, &p.Description,
			&p.Color, &p.LeadID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}
