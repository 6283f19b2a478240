package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskora/taskora-backend/internal/types"
)

type Organization struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrganizationMember struct {
	ID             string
	OrganizationID string
	UserID         string
	Role           types.OrgRole
	JoinedAt       time.Time
	User           *User
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id string) (*Organization, error)
	FindByUserID(ctx context.Context, userID string) ([]*Organization, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, member *OrganizationMember) error
	FindMembers(ctx context.Context, orgID string) ([]*OrganizationMember, error)
	FindMember(ctx context.Context, orgID, userID string) (*OrganizationMember, error)
	FindMemberUserIDs(ctx context.Context, orgID string) ([]string, error)
	UpdateMemberRole(ctx context.Context, orgID, userID string, role types.OrgRole) error
	RemoveMember(ctx context.Context, orgID, userID string) error
	CountOwners(ctx context.Context, orgID string) (int, error)
	FindActiveIDs(ctx context.Context, within time.Duration) ([]string, error)
}

type pgOrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &pgOrganizationRepository{pool: pool}
}

func (r *pgOrganizationRepository) Create(ctx context.Context, org *Organization) error {
	query := `
		INSERT INTO organizations (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, org.Name, org.Description).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *pgOrganizationRepository) FindByID(ctx context.Context, id string) (*Organization, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM organizations WHERE id = $1
	`
	org := &Organization{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *pgOrganizationRepository) FindByUserID(ctx context.Context, userID string) ([]*Organization, error) {
	query := `
		SELECT o.id, o.name, o.description, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_members om ON o.id = om.organization_id
		WHERE om.user_id = $1
		ORDER BY o.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		org := &Organization{}
		if err := rows.Scan(
			&org.ID, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (r *pgOrganizationRepository) Update(ctx context.Context, org *Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, org.ID, org.Name, org.Description)
	return err
}

func (r *pgOrganizationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM organizations WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgOrganizationRepository) AddMember(ctx context.Context, member *OrganizationMember) error {
	query := `
		INSERT INTO organization_members (organization_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = $3
		RETURNING id, joined_at
	`
	return r.pool.QueryRow(ctx, query, member.OrganizationID, member.UserID, member.Role).
		Scan(&member.ID, &member.JoinedAt)
}

func (r *pgOrganizationRepository) FindMembers(ctx context.Context, orgID string) ([]*OrganizationMember, error) {
	query := `
		SELECT om.id, om.organization_id, om.user_id, om.role, om.joined_at,
		       u.id, u.email, u.name, u.avatar
		FROM organization_members om
		JOIN users u ON om.user_id = u.id
		WHERE om.organization_id = $1
		ORDER BY om.joined_at
	`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*OrganizationMember
	for rows.Next() {
		m := &OrganizationMember{User: &User{}}
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.User.ID, &m.User.Email, &m.User.Name, &m.User.Avatar,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *pgOrganizationRepository) FindMember(ctx context.Context, orgID, userID string) (*OrganizationMember, error) {
	query := `
		SELECT id, organization_id, user_id, role, joined_at
		FROM organization_members WHERE organization_id = $1 AND user_id = $2
	`
	m := &OrganizationMember{}
	err := r.pool.QueryRow(ctx, query, orgID, userID).Scan(
		&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgOrganizationRepository) FindMemberUserIDs(ctx context.Context, orgID string) ([]string, error) {
	query := `SELECT user_id FROM organization_members WHERE organization_id = $1`
	rows, err := r.pool.Query(ctx, query, orgID)
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

func (r *pgOrganizationRepository) UpdateMemberRole(ctx context.Context, orgID, userID string, role types.OrgRole) error {
	query := `
		UPDATE organization_members SET role = $3
		WHERE organization_id = $1 AND user_id = $2
	`
	_, err := r.pool.Exec(ctx, query, orgID, userID, role)
	return err
}

func (r *pgOrganizationRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	query := `DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, orgID, userID)
	return err
}

// FindActiveIDs returns organizations with task activity within the given window.
func (r *pgOrganizationRepository) FindActiveIDs(ctx context.Context, within time.Duration) ([]string, error) {
	query := `
		SELECT DISTINCT p.organization_id
		FROM projects p
		JOIN tasks t ON t.project_id = p.id
		WHERE t.updated_at > NOW() - make_interval(hours => $1)
	`
	rows, err := r.pool.Query(ctx, query, int(within.Hours()))
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

func (r *pgOrganizationRepository) CountOwners(ctx context.Context, orgID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM organization_members
		WHERE organization_id = $1 AND role = 'owner'
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, orgID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
