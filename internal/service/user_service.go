package service

import (
	"context"

	"github.com/taskora/taskora-backend/internal/repository"
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	Update(ctx context.Context, id string, name *string, avatar *string) (*repository.User, error)
	Search(ctx context.Context, query string, limit int) ([]*repository.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, name *string, avatar *string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil || user == nil {
		return nil, ErrNotFound
	}

	if name != nil {
		user.Name = *name
	}
	user.Avatar = avatar

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Search(ctx context.Context, query string, limit int) ([]*repository.User, error) {
	if query == "" {
		return nil, ErrInvalidInput
	}
	return s.userRepo.Search(ctx, query, limit)
}
