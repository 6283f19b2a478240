package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Task struct {
	ID          string
	Key         string
	Title       string
	Description *string
	Status      string
	Priority    string
	ProjectID   string
	AssigneeID  *string
	ReporterID  string
	DueDate     *time.Time
	OrderIndex  int
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Assignee    *User
}

type TaskFilters struct {
	Status     []string
	Priority   []string
	AssigneeID []string
	Search     string
	Limit      int
	Offset     int
}

const taskColumns = `t.id, t.key, t.title, t.description, t.status, t.priority,
	t.project_id, t.assignee_id, t.reporter_id, t.due_date, t.order_index,
	t.completed_at, t.created_at, t.updated_at`

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindByKey(ctx context.Context, key string) (*Task, error)
	FindByProjectID(ctx context.Context, projectID string, filters *TaskFilters) ([]*Task, error)
	FindByAssigneeID(ctx context.Context, assigneeID string) ([]*Task, error)
	FindOverdue(ctx context.Context) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	UpdateStatus(ctx context.Context, id, status string, orderIndex int, completedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	MaxOrderIndex(ctx context.Context, projectID, status string) (int, error)
	Search(ctx context.Context, userID, query string, limit int) ([]*Task, error)
	AddLabel(ctx context.Context, taskID, labelID string) error
	RemoveLabel(ctx context.Context, taskID, labelID string) error
	FindLabels(ctx context.Context, taskID string) ([]*Label, error)
}

type pgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgTaskRepository{pool: pool}
}

func (r *pgTaskRepository) Create(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (key, title, description, status, priority, project_id, assignee_id, reporter_id, due_date, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		task.Key, task.Title, task.Description, task.Status, task.Priority,
		task.ProjectID, task.AssigneeID, task.ReporterID, task.DueDate, task.OrderIndex,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks t WHERE t.id = $1`, taskColumns)
	return r.queryOne(ctx, query, id)
}

func (r *pgTaskRepository) FindByKey(ctx context.Context, key string) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks t WHERE t.key = $1`, taskColumns)
	return r.queryOne(ctx, query, key)
}

func (r *pgTaskRepository) queryOne(ctx context.Context, query string, arg interface{}) (*Task, error) {
	t := &Task{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.Key, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.ProjectID, &t.AssigneeID, &t.ReporterID, &t.DueDate, &t.OrderIndex,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *pgTaskRepository) FindByProjectID(ctx context.Context, projectID string, filters *TaskFilters) ([]*Task, error) {
	var (
		conditions = []string{"t.project_id = $1"}
		args       = []interface{}{projectID}
	)

	if filters != nil {
		if len(filters.Status) > 0 {
			args = append(args, filters.Status)
			conditions = append(conditions, fmt.Sprintf("t.status = ANY($%d)", len(args)))
		}
		if len(filters.Priority) > 0 {
			args = append(args, filters.Priority)
			conditions = append(conditions, fmt.Sprintf("t.priority = ANY($%d)", len(args)))
		}
		if len(filters.AssigneeID) > 0 {
			args = append(args, filters.AssigneeID)
			conditions = append(conditions, fmt.Sprintf("t.assignee_id = ANY($%d)", len(args)))
		}
		if filters.Search != "" {
			args = append(args, filters.Search)
			conditions = append(conditions, fmt.Sprintf("t.title ILIKE '%%' || $%d || '%%'", len(args)))
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks t WHERE %s ORDER BY t.status, t.order_index`,
		taskColumns, strings.Join(conditions, " AND "))

	if filters != nil && filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filters.Offset > 0 {
			args = append(args, filters.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *pgTaskRepository) FindByAssigneeID(ctx context.Context, assigneeID string) ([]*Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks t
		WHERE t.assignee_id = $1 AND t.status != 'done'
		ORDER BY t.due_date NULLS LAST, t.priority
	`, taskColumns)
	rows, err := r.pool.Query(ctx, query, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *pgTaskRepository) FindOverdue(ctx context.Context) ([]*Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks t
		WHERE t.due_date < NOW() AND t.status != 'done'
		ORDER BY t.due_date
	`, taskColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *pgTaskRepository) Update(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
		    assignee_id = $6, due_date = $7, order_index = $8, completed_at = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.AssigneeID, task.DueDate, task.OrderIndex, task.CompletedAt,
	)
	return err
}

func (r *pgTaskRepository) UpdateStatus(ctx context.Context, id, status string, orderIndex int, completedAt *time.Time) error {
	query := `
		UPDATE tasks
		SET status = $2, order_index = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, status, orderIndex, completedAt)
	return err
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgTaskRepository) MaxOrderIndex(ctx context.Context, projectID, status string) (int, error) {
	query := `
		SELECT COALESCE(MAX(order_index), -1) FROM tasks
		WHERE project_id = $1 AND status = $2
	`
	var max int
	if err := r.pool.QueryRow(ctx, query, projectID, status).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// Search finds tasks by title match inside the caller's organizations.
func (r *pgTaskRepository) Search(ctx context.Context, userID, query string, limit int) ([]*Task, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := fmt.Sprintf(`
		SELECT DISTINCT %s FROM tasks t
		JOIN projects p ON t.project_id = p.id
		JOIN organization_members om ON p.organization_id = om.organization_id
		WHERE om.user_id = $1 AND (t.title ILIKE '%%' || $2 || '%%' OR t.key ILIKE '%%' || $2 || '%%')
		ORDER BY t.key
		LIMIT $3
	`, taskColumns)
	rows, err := r.pool.Query(ctx, sql, userID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *pgTaskRepository) AddLabel(ctx context.Context, taskID, labelID string) error {
	query := `
		INSERT INTO task_labels (task_id, label_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, taskID, labelID)
	return err
}

func (r *pgTaskRepository) RemoveLabel(ctx context.Context, taskID, labelID string) error {
	query := `DELETE FROM task_labels WHERE task_id = $1 AND label_id = $2`
	_, err := r.pool.Exec(ctx, query, taskID, labelID)
	return err
}

func (r *pgTaskRepository) FindLabels(ctx context.Context, taskID string) ([]*Label, error) {
	query := `
		SELECT l.id, l.name, l.color, l.project_id, l.created_at
		FROM labels l
		JOIN task_labels tl ON l.id = tl.label_id
		WHERE tl.task_id = $1
		ORDER BY l.name
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*Label
	for rows.Next() {
		l := &Label{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.ProjectID, &l.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func scanTasks(rows pgx.Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		t := &Task{}
		if err := rows.Scan(
			&t.ID, &t.Key, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.ProjectID, &t.AssigneeID, &t.ReporterID, &t.DueDate, &t.OrderIndex,
			&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
