package models

import (
	"time"

	"github.com/taskora/taskora-backend/internal/repository"
)

// ============================================
// AUTH REQUESTS & RESPONSES
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ============================================
// USER REQUESTS & RESPONSES
// ============================================

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToUserResponse(u *repository.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []*repository.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// ============================================
// ORGANIZATION REQUESTS & RESPONSES
// ============================================

type CreateOrganizationRequest struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Description *string `json:"description"`
}

type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=owner admin member"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner admin member"`
}

type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToOrganizationResponse(o *repository.Organization) *OrganizationResponse {
	if o == nil {
		return nil
	}
	return &OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ToOrganizationResponses(orgs []*repository.Organization) []*OrganizationResponse {
	out := make([]*OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, ToOrganizationResponse(o))
	}
	return out
}

type OrgMemberResponse struct {
	UserID   string        `json:"userId"`
	Role     string        `json:"role"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

func ToOrgMemberResponse(m *repository.OrganizationMember) *OrgMemberResponse {
	return &OrgMemberResponse{
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
		User:     ToUserResponse(m.User),
	}
}

func ToOrgMemberResponses(members []*repository.OrganizationMember) []*OrgMemberResponse {
	out := make([]*OrgMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToOrgMemberResponse(m))
	}
	return out
}
