package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/socket"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Task Service
// ============================================

// Board groups a project's tasks by status column, each column ordered by
// order index.
type Board struct {
	ProjectID string                        `json:"projectId"`
	Columns   map[string][]*repository.Task `json:"columns"`
}

type TaskService interface {
	Create(ctx context.Context, projectID, reporterID, title string, description *string, priority string, assigneeID *string, dueDate *time.Time) (*repository.Task, error)
	GetByID(ctx context.Context, userID, taskID string) (*repository.Task, error)
	ListByProject(ctx context.Context, userID, projectID string, filters *repository.TaskFilters) ([]*repository.Task, error)
	GetBoard(ctx context.Context, userID, projectID string) (*Board, error)
	ListMyTasks(ctx context.Context, userID string) ([]*repository.Task, error)
	Update(ctx context.Context, userID, taskID string, title, description *string, priority *string, dueDate *time.Time) (*repository.Task, error)
	Delete(ctx context.Context, userID, taskID string) error

	Move(ctx context.Context, userID, taskID, status string, orderIndex int) (*repository.Task, error)
	Assign(ctx context.Context, userID, taskID string, assigneeID *string) (*repository.Task, error)

	AddComment(ctx context.Context, userID, taskID, content string) (*repository.Comment, error)
	ListComments(ctx context.Context, userID, taskID string) ([]*repository.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID, content string) (*repository.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID string) error

	AddLabel(ctx context.Context, userID, taskID, labelID string) error
	RemoveLabel(ctx context.Context, userID, taskID, labelID string) error
	ListLabels(ctx context.Context, userID, taskID string) ([]*repository.Label, error)
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	labelRepo   repository.LabelRepository
	permission  PermissionService
	broadcaster *socket.Broadcaster
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	labelRepo repository.LabelRepository,
	permission PermissionService,
	broadcaster *socket.Broadcaster,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		labelRepo:   labelRepo,
		permission:  permission,
		broadcaster: broadcaster,
	}
}

func (s *taskService) Create(ctx context.Context, projectID, reporterID, title string, description *string, priority string, assigneeID *string, dueDate *time.Time) (*repository.Task, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, reporterID, projectID, types.AccessView); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrInvalidInput
	}
	if priority == "" {
		priority = types.PriorityNone
	}
	if !types.IsValidTaskPriority(priority) {
		return nil, ErrInvalidInput
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, ErrNotFound
	}

	num, err := s.projectRepo.GetNextTaskNumber(ctx, projectID)
	if err != nil {
		return nil, err
	}

	maxOrder, err := s.taskRepo.MaxOrderIndex(ctx, projectID, types.StatusBacklog)
	if err != nil {
		return nil, err
	}

	task := &repository.Task{
		Key:         fmt.Sprintf("%s-%d", project.Key, num),
		Title:       title,
		Description: description,
		Status:      types.StatusBacklog,
		Priority:    priority,
		ProjectID:   projectID,
		AssigneeID:  assigneeID,
		ReporterID:  reporterID,
		DueDate:     dueDate,
		OrderIndex:  maxOrder + 1,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskCreated(projectID, task.ID, task.Key, reporterID)
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, userID, taskID string) (*repository.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, userID, projectID string, filters *repository.TaskFilters) ([]*repository.Task, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessView); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByProjectID(ctx, projectID, filters)
}

func (s *taskService) GetBoard(ctx context.Context, userID, projectID string) (*Board, error) {
	tasks, err := s.ListByProject(ctx, userID, projectID, nil)
	if err != nil {
		return nil, err
	}

	board := &Board{
		ProjectID: projectID,
		Columns:   make(map[string][]*repository.Task, len(types.ValidTaskStatuses)),
	}
	for _, status := range types.ValidTaskStatuses {
		board.Columns[status] = []*repository.Task{}
	}
	for _, t := range tasks {
		board.Columns[t.Status] = append(board.Columns[t.Status], t)
	}
	return board, nil
}

func (s *taskService) ListMyTasks(ctx context.Context, userID string) ([]*repository.Task, error) {
	return s.taskRepo.FindByAssigneeID(ctx, userID)
}

func (s *taskService) Update(ctx context.Context, userID, taskID string, title, description *string, priority *string, dueDate *time.Time) (*repository.Task, error) {
	task, err := s.requireTaskEdit(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		task.Title = *title
	}
	task.Description = description
	if priority != nil {
		if !types.IsValidTaskPriority(*priority) {
			return nil, ErrInvalidInput
		}
		task.Priority = *priority
	}
	task.DueDate = dueDate

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskUpdated(task.ProjectID, task.ID, userID)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessEdit); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskDeleted(task.ProjectID, task.ID, task.Key, userID)
	}
	return nil
}

// Move changes a task's board column and position. Entering done stamps
// completed_at; leaving done clears it.
func (s *taskService) Move(ctx context.Context, userID, taskID, status string, orderIndex int) (*repository.Task, error) {
	if !types.IsValidTaskStatus(status) {
		return nil, ErrInvalidInput
	}

	task, err := s.requireTaskEdit(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Status = status
	task.OrderIndex = orderIndex

	switch {
	case status == types.StatusDone && oldStatus != types.StatusDone:
		now := time.Now()
		task.CompletedAt = &now
	case status != types.StatusDone:
		task.CompletedAt = nil
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, task.Status, task.OrderIndex, task.CompletedAt); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskMoved(task.ProjectID, task.ID, oldStatus, status, userID)
	}
	return task, nil
}

func (s *taskService) Assign(ctx context.Context, userID, taskID string, assigneeID *string) (*repository.Task, error) {
	task, err := s.requireTaskEdit(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	// An assignee must be able to see the project.
	if assigneeID != nil && !s.permission.CanAccessProject(ctx, *assigneeID, task.ProjectID) {
		return nil, ErrInvalidInput
	}

	task.AssigneeID = assigneeID
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskUpdated(task.ProjectID, task.ID, userID)
		if assigneeID != nil && *assigneeID != userID {
			s.broadcaster.BroadcastTaskAssigned(*assigneeID, task.ID, task.Key, userID)
		}
	}
	return task, nil
}

// ============================================
// Comments
// ============================================

func (s *taskService) AddComment(ctx context.Context, userID, taskID, content string) (*repository.Comment, error) {
	if content == "" {
		return nil, ErrInvalidInput
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	// Commenting only needs view access.
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return nil, err
	}

	comment := &repository.Comment{
		Content: content,
		TaskID:  taskID,
		UserID:  userID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastCommentAdded(task.ProjectID, taskID, comment.ID, userID)
	}
	return comment, nil
}

func (s *taskService) ListComments(ctx context.Context, userID, taskID string) ([]*repository.Comment, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByTaskID(ctx, taskID)
}

func (s *taskService) UpdateComment(ctx context.Context, userID, commentID, content string) (*repository.Comment, error) {
	if content == "" {
		return nil, ErrInvalidInput
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	// Only the author edits their comment.
	if comment.UserID != userID {
		return nil, fmt.Errorf("%w: only the comment author can edit it", ErrForbidden)
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *taskService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}

	if comment.UserID != userID {
		// Project leads and org admins may moderate.
		task, err := s.taskRepo.FindByID(ctx, comment.TaskID)
		if err != nil || task == nil {
			return ErrNotFound
		}
		if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessEdit); err != nil {
			return err
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// ============================================
// Labels
// ============================================

func (s *taskService) AddLabel(ctx context.Context, userID, taskID, labelID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return err
	}

	label, err := s.labelRepo.FindByID(ctx, labelID)
	if err != nil {
		return err
	}
	if label == nil || label.ProjectID != task.ProjectID {
		return ErrNotFound
	}

	return s.taskRepo.AddLabel(ctx, taskID, labelID)
}

func (s *taskService) RemoveLabel(ctx context.Context, userID, taskID, labelID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return err
	}
	return s.taskRepo.RemoveLabel(ctx, taskID, labelID)
}

func (s *taskService) ListLabels(ctx context.Context, userID, taskID string) ([]*repository.Label, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return nil, err
	}
	return s.taskRepo.FindLabels(ctx, taskID)
}

// requireTaskEdit loads the task and demands edit-level access to its
// project; assignees may also edit their own tasks without lead rank.
func (s *taskService) requireTaskEdit(ctx context.Context, userID, taskID string) (*repository.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}

	if task.AssigneeID != nil && *task.AssigneeID == userID {
		// Assignees always need at least view access through the org.
		if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
			return nil, err
		}
		return task, nil
	}
	// Reporters may edit what they filed, as long as they can still view it.
	if task.ReporterID == userID {
		if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
			return nil, err
		}
		return task, nil
	}

	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessEdit); err != nil {
		return nil, err
	}
	return task, nil
}
