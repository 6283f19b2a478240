package service

import (
	"context"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Label Service
// ============================================

type LabelService interface {
	Create(ctx context.Context, userID, projectID, name, color string) (*repository.Label, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]*repository.Label, error)
	Update(ctx context.Context, userID, labelID string, name, color *string) (*repository.Label, error)
	Delete(ctx context.Context, userID, labelID string) error
}

type labelService struct {
	labelRepo  repository.LabelRepository
	permission PermissionService
}

func NewLabelService(labelRepo repository.LabelRepository, permission PermissionService) LabelService {
	return &labelService{labelRepo: labelRepo, permission: permission}
}

func (s *labelService) Create(ctx context.Context, userID, projectID, name, color string) (*repository.Label, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessEdit); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrInvalidInput
	}
	if color == "" {
		color = "#808080"
	}

	label := &repository.Label{
		Name:      name,
		Color:     color,
		ProjectID: projectID,
	}
	if err := s.labelRepo.Create(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *labelService) ListByProject(ctx context.Context, userID, projectID string) ([]*repository.Label, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessView); err != nil {
		return nil, err
	}
	return s.labelRepo.FindByProjectID(ctx, projectID)
}

func (s *labelService) Update(ctx context.Context, userID, labelID string, name, color *string) (*repository.Label, error) {
	label, err := s.labelRepo.FindByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, label.ProjectID, types.AccessEdit); err != nil {
		return nil, err
	}

	if name != nil {
		label.Name = *name
	}
	if color != nil {
		label.Color = *color
	}

	if err := s.labelRepo.Update(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *labelService) Delete(ctx context.Context, userID, labelID string) error {
	label, err := s.labelRepo.FindByID(ctx, labelID)
	if err != nil {
		return err
	}
	if label == nil {
		return ErrNotFound
	}
	if _, err := s.permission.RequireProjectAccess(ctx, userID, label.ProjectID, types.AccessEdit); err != nil {
		return err
	}
	return s.labelRepo.Delete(ctx, labelID)
}
