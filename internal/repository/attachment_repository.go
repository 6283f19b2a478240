package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Attachment struct {
	ID          string
	TaskID      string
	UploaderID  string
	FileName    string
	StoredName  string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *Attachment) error
	FindByID(ctx context.Context, id string) (*Attachment, error)
	FindByTaskID(ctx context.Context, taskID string) ([]*Attachment, error)
	Delete(ctx context.Context, id string) error
}

type pgAttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &pgAttachmentRepository{pool: pool}
}

func (r *pgAttachmentRepository) Create(ctx context.Context, attachment *Attachment) error {
	query := `
		INSERT INTO attachments (task_id, uploader_id, file_name, stored_name, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		attachment.TaskID, attachment.UploaderID, attachment.FileName,
		attachment.StoredName, attachment.ContentType, attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *pgAttachmentRepository) FindByID(ctx context.Context, id string) (*Attachment, error) {
	query := `
		SELECT id, task_id, uploader_id, file_name, stored_name, content_type, size_bytes, created_at
		FROM attachments WHERE id = $1
	`
	a := &Attachment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.TaskID, &a.UploaderID, &a.FileName, &a.StoredName,
		&a.ContentType, &a.SizeBytes, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *pgAttachmentRepository) FindByTaskID(ctx context.Context, taskID string) ([]*Attachment, error) {
	query := `
		SELECT id, task_id, uploader_id, file_name, stored_name, content_type, size_bytes, created_at
		FROM attachments WHERE task_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*Attachment
	for rows.Next() {
		a := &Attachment{}
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.UploaderID, &a.FileName, &a.StoredName,
			&a.ContentType, &a.SizeBytes, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

func (r *pgAttachmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM attachments WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
