package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/taskora/taskora-backend/internal/config"
	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Attachment Service
// ============================================

// Files land on local disk under the configured upload dir, stored under a
// random name; the original file name lives only in the metadata row.
type AttachmentService interface {
	Upload(ctx context.Context, userID, taskID, fileName, contentType string, size int64, content io.Reader) (*repository.Attachment, error)
	ListByTask(ctx context.Context, userID, taskID string) ([]*repository.Attachment, error)
	ResolvePath(ctx context.Context, userID, attachmentID string) (*repository.Attachment, string, error)
	Delete(ctx context.Context, userID, attachmentID string) error
}

type attachmentService struct {
	cfg            *config.Config
	attachmentRepo repository.AttachmentRepository
	taskRepo       repository.TaskRepository
	permission     PermissionService
}

func NewAttachmentService(cfg *config.Config, attachmentRepo repository.AttachmentRepository, taskRepo repository.TaskRepository, permission PermissionService) AttachmentService {
	return &attachmentService{
		cfg:            cfg,
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
		permission:     permission,
	}
}

func (s *attachmentService) Upload(ctx context.Context, userID, taskID, fileName, contentType string, size int64, content io.Reader) (*repository.Attachment, error) {
	if fileName == "" {
		return nil, ErrInvalidInput
	}
	if size > int64(s.cfg.MaxUploadMB)*1024*1024 {
		return nil, ErrFileTooLarge
	}

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

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	storedName := uuid.New().String() + filepath.Ext(fileName)
	path := filepath.Join(s.cfg.UploadDir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(content, int64(s.cfg.MaxUploadMB)*1024*1024+1))
	f.Close()
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written > int64(s.cfg.MaxUploadMB)*1024*1024 {
		os.Remove(path)
		return nil, ErrFileTooLarge
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &repository.Attachment{
		TaskID:      taskID,
		UploaderID:  userID,
		FileName:    fileName,
		StoredName:  storedName,
		ContentType: contentType,
		SizeBytes:   written,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		os.Remove(path)
		return nil, err
	}
	return attachment, nil
}

func (s *attachmentService) ListByTask(ctx context.Context, userID, taskID string) ([]*repository.Attachment, error) {
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
	return s.attachmentRepo.FindByTaskID(ctx, taskID)
}

// ResolvePath returns the attachment metadata and the on-disk path for
// download after an access check.
func (s *attachmentService) ResolvePath(ctx context.Context, userID, attachmentID string) (*repository.Attachment, string, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, "", err
	}
	if attachment == nil {
		return nil, "", ErrNotFound
	}

	task, err := s.taskRepo.FindByID(ctx, attachment.TaskID)
	if err != nil || task == nil {
		return nil, "", ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessView); err != nil {
		return nil, "", err
	}

	return attachment, filepath.Join(s.cfg.UploadDir, attachment.StoredName), nil
}

func (s *attachmentService) Delete(ctx context.Context, userID, attachmentID string) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}
	if attachment == nil {
		return ErrNotFound
	}

	if attachment.UploaderID != userID {
		task, err := s.taskRepo.FindByID(ctx, attachment.TaskID)
		if err != nil || task == nil {
			return ErrNotFound
		}
		if _, err := s.permission.RequireProjectAccess(ctx, userID, task.ProjectID, types.AccessEdit); err != nil {
			return err
		}
	}

	if err := s.attachmentRepo.Delete(ctx, attachmentID); err != nil {
		return err
	}
	os.Remove(filepath.Join(s.cfg.UploadDir, attachment.StoredName))
	return nil
}
