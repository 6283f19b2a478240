package models

import (
	"time"

	"github.com/taskora/taskora-backend/internal/repository"
)

// ============================================
// PROJECT REQUESTS & RESPONSES
// ============================================

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Key         string  `json:"key" binding:"required,min=2,max=10,uppercase"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	LeadID      *string `json:"leadId"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Key         *string `json:"key"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	LeadID      *string `json:"leadId"`
}

type AddProjectMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type ProjectResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Key            string    `json:"key"`
	Description    *string   `json:"description"`
	Color          *string   `json:"color"`
	LeadID         *string   `json:"leadId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func ToProjectResponse(p *repository.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Key:            p.Key,
		Description:    p.Description,
		Color:          p.Color,
		LeadID:         p.LeadID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func ToProjectResponses(projects []*repository.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}

type ProjectMemberResponse struct {
	UserID   string        `json:"userId"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

func ToProjectMemberResponses(members []*repository.ProjectMember) []*ProjectMemberResponse {
	out := make([]*ProjectMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, &ProjectMemberResponse{
			UserID:   m.UserID,
			JoinedAt: m.JoinedAt,
			User:     ToUserResponse(m.User),
		})
	}
	return out
}
