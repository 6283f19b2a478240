package models

import (
	"time"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/service"
)

// ============================================
// TASK REQUESTS & RESPONSES
// ============================================

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

type MoveTaskRequest struct {
	Status     string `json:"status" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

type AssignTaskRequest struct {
	AssigneeID *string `json:"assigneeId"`
}

type TaskResponse struct {
	ID          string        `json:"id"`
	Key         string        `json:"key"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	ProjectID   string        `json:"projectId"`
	AssigneeID  *string       `json:"assigneeId"`
	ReporterID  string        `json:"reporterId"`
	DueDate     *time.Time    `json:"dueDate"`
	OrderIndex  int           `json:"orderIndex"`
	CompletedAt *time.Time    `json:"completedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Assignee    *UserResponse `json:"assignee,omitempty"`
}

func ToTaskResponse(t *repository.Task) *TaskResponse {
	if t == nil {
		return nil
	}
	return &TaskResponse{
		ID:          t.ID,
		Key:         t.Key,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		ReporterID:  t.ReporterID,
		DueDate:     t.DueDate,
		OrderIndex:  t.OrderIndex,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Assignee:    ToUserResponse(t.Assignee),
	}
}

func ToTaskResponses(tasks []*repository.Task) []*TaskResponse {
	out := make([]*TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

type BoardResponse struct {
	ProjectID string                     `json:"projectId"`
	Columns   map[string][]*TaskResponse `json:"columns"`
}

func ToBoardResponse(b *service.Board) *BoardResponse {
	columns := make(map[string][]*TaskResponse, len(b.Columns))
	for status, tasks := range b.Columns {
		columns[status] = ToTaskResponses(tasks)
	}
	return &BoardResponse{
		ProjectID: b.ProjectID,
		Columns:   columns,
	}
}

// ============================================
// COMMENT REQUESTS & RESPONSES
// ============================================

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID        string        `json:"id"`
	TaskID    string        `json:"taskId"`
	UserID    string        `json:"userId"`
	Content   string        `json:"content"`
	User      *UserResponse `json:"user,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func ToCommentResponse(c *repository.Comment) *CommentResponse {
	if c == nil {
		return nil
	}
	return &CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Content:   c.Content,
		User:      ToUserResponse(c.User),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToCommentResponses(comments []*repository.Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentResponse(c))
	}
	return out
}

// ============================================
// LABEL REQUESTS & RESPONSES
// ============================================

type CreateLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type UpdateLabelRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type AttachLabelRequest struct {
	LabelID string `json:"labelId" binding:"required"`
}

type LabelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToLabelResponse(l *repository.Label) *LabelResponse {
	if l == nil {
		return nil
	}
	return &LabelResponse{
		ID:        l.ID,
		Name:      l.Name,
		Color:     l.Color,
		ProjectID: l.ProjectID,
		CreatedAt: l.CreatedAt,
	}
}

func ToLabelResponses(labels []*repository.Label) []*LabelResponse {
	out := make([]*LabelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, ToLabelResponse(l))
	}
	return out
}

// ============================================
// ATTACHMENT RESPONSES
// ============================================

type AttachmentResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	UploaderID  string    `json:"uploaderId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToAttachmentResponse(a *repository.Attachment) *AttachmentResponse {
	if a == nil {
		return nil
	}
	return &AttachmentResponse{
		ID:          a.ID,
		TaskID:      a.TaskID,
		UploaderID:  a.UploaderID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

func ToAttachmentResponses(attachments []*repository.Attachment) []*AttachmentResponse {
	out := make([]*AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, ToAttachmentResponse(a))
	}
	return out
}

// ============================================
// SEARCH RESPONSES
// ============================================

type SearchResponse struct {
	Projects []*ProjectResponse `json:"projects"`
	Tasks    []*TaskResponse    `json:"tasks"`
}

func ToSearchResponse(r *service.SearchResults) *SearchResponse {
	return &SearchResponse{
		Projects: ToProjectResponses(r.Projects),
		Tasks:    ToTaskResponses(r.Tasks),
	}
}
