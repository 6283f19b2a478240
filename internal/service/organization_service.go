package service

import (
	"context"
	"fmt"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/socket"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Organization Service
// ============================================

type OrganizationService interface {
	Create(ctx context.Context, creatorID, name string, description *string) (*repository.Organization, error)
	GetByID(ctx context.Context, userID, orgID string) (*repository.Organization, error)
	ListByUser(ctx context.Context, userID string) ([]*repository.Organization, error)
	Update(ctx context.Context, userID, orgID string, name *string, description *string) (*repository.Organization, error)
	Delete(ctx context.Context, userID, orgID string) error

	AddMember(ctx context.Context, actorID, orgID, userID string, role types.OrgRole) error
	ListMembers(ctx context.Context, userID, orgID string) ([]*repository.OrganizationMember, error)
	UpdateMemberRole(ctx context.Context, actorID, orgID, userID string, role types.OrgRole) error
	RemoveMember(ctx context.Context, actorID, orgID, userID string) error
	Leave(ctx context.Context, userID, orgID string) error
}

type organizationService struct {
	orgRepo     repository.OrganizationRepository
	userRepo    repository.UserRepository
	permission  PermissionService
	broadcaster *socket.Broadcaster
}

func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository, permission PermissionService, broadcaster *socket.Broadcaster) OrganizationService {
	return &organizationService{
		orgRepo:     orgRepo,
		userRepo:    userRepo,
		permission:  permission,
		broadcaster: broadcaster,
	}
}

// Create makes the organization and installs the creator as its owner, so
// every organization starts with at least one owner.
func (s *organizationService) Create(ctx context.Context, creatorID, name string, description *string) (*repository.Organization, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}

	org := &repository.Organization{
		Name:        name,
		Description: description,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	member := &repository.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         creatorID,
		Role:           types.OrgRoleOwner,
	}
	if err := s.orgRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner membership: %w", err)
	}

	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, userID, orgID string) (*repository.Organization, error) {
	if _, err := s.permission.RequireOrgRole(ctx, userID, orgID, types.OrgRoleMember); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotFound
	}
	return org, nil
}

func (s *organizationService) ListByUser(ctx context.Context, userID string) ([]*repository.Organization, error) {
	return s.orgRepo.FindByUserID(ctx, userID)
}

func (s *organizationService) Update(ctx context.Context, userID, orgID string, name *string, description *string) (*repository.Organization, error) {
	if _, err := s.permission.RequireOrgRole(ctx, userID, orgID, types.OrgRoleAdmin); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil || org == nil {
		return nil, ErrNotFound
	}

	if name != nil {
		org.Name = *name
	}
	org.Description = description

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete requires the owner role exactly. Cascades take projects, tasks and
// memberships with it.
func (s *organizationService) Delete(ctx context.Context, userID, orgID string) error {
	if err := s.permission.RequireOrgOwner(ctx, userID, orgID); err != nil {
		return err
	}
	return s.orgRepo.Delete(ctx, orgID)
}

func (s *organizationService) AddMember(ctx context.Context, actorID, orgID, userID string, role types.OrgRole) error {
	if _, err := s.permission.RequireOrgRole(ctx, actorID, orgID, types.OrgRoleAdmin); err != nil {
		return err
	}
	if !types.ValidOrgRole(role) {
		return ErrInvalidInput
	}
	// Granting ownership is reserved for owners.
	if role == types.OrgRoleOwner {
		if err := s.permission.RequireOrgOwner(ctx, actorID, orgID); err != nil {
			return err
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		return ErrNotFound
	}

	existing, _ := s.orgRepo.FindMember(ctx, orgID, userID)
	if existing != nil {
		return ErrConflict
	}

	member := &repository.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}
	if err := s.orgRepo.AddMember(ctx, member); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberAdded(orgID, userID, string(role), actorID)
	}
	return nil
}

func (s *organizationService) ListMembers(ctx context.Context, userID, orgID string) ([]*repository.OrganizationMember, error) {
	if _, err := s.permission.RequireOrgRole(ctx, userID, orgID, types.OrgRoleMember); err != nil {
		return nil, err
	}
	return s.orgRepo.FindMembers(ctx, orgID)
}

func (s *organizationService) UpdateMemberRole(ctx context.Context, actorID, orgID, userID string, role types.OrgRole) error {
	if _, err := s.permission.RequireOrgRole(ctx, actorID, orgID, types.OrgRoleAdmin); err != nil {
		return err
	}
	if !types.ValidOrgRole(role) {
		return ErrInvalidInput
	}
	// Promoting to or demoting from owner is reserved for owners.
	target, err := s.orgRepo.FindMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if role == types.OrgRoleOwner || target.Role == types.OrgRoleOwner {
		if err := s.permission.RequireOrgOwner(ctx, actorID, orgID); err != nil {
			return err
		}
	}

	if target.Role == types.OrgRoleOwner && role != types.OrgRoleOwner {
		if err := s.ensureNotLastOwner(ctx, orgID); err != nil {
			return err
		}
	}

	if err := s.orgRepo.UpdateMemberRole(ctx, orgID, userID, role); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberRoleUpdated(orgID, userID, string(role), actorID)
	}
	return nil
}

func (s *organizationService) RemoveMember(ctx context.Context, actorID, orgID, userID string) error {
	if _, err := s.permission.RequireOrgRole(ctx, actorID, orgID, types.OrgRoleAdmin); err != nil {
		return err
	}

	target, err := s.orgRepo.FindMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if target.Role == types.OrgRoleOwner {
		if err := s.permission.RequireOrgOwner(ctx, actorID, orgID); err != nil {
			return err
		}
		if err := s.ensureNotLastOwner(ctx, orgID); err != nil {
			return err
		}
	}

	if err := s.orgRepo.RemoveMember(ctx, orgID, userID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberRemoved(orgID, userID, actorID)
	}
	return nil
}

func (s *organizationService) Leave(ctx context.Context, userID, orgID string) error {
	member, err := s.orgRepo.FindMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}
	if member.Role == types.OrgRoleOwner {
		if err := s.ensureNotLastOwner(ctx, orgID); err != nil {
			return err
		}
	}
	return s.orgRepo.RemoveMember(ctx, orgID, userID)
}

func (s *organizationService) ensureNotLastOwner(ctx context.Context, orgID string) error {
	owners, err := s.orgRepo.CountOwners(ctx, orgID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return ErrLastOwner
	}
	return nil
}
