package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskora/taskora-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Organization *OrganizationHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Attachment   *AttachmentHandler
	Search       *SearchHandler
	Analytics    *AnalyticsHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		User:         &UserHandler{userService: services.User},
		Organization: &OrganizationHandler{orgService: services.Organization},
		Project:      &ProjectHandler{projectService: services.Project, labelService: services.Label},
		Task:         &TaskHandler{taskService: services.Task},
		Attachment:   &AttachmentHandler{attachmentService: services.Attachment},
		Search:       &SearchHandler{searchService: services.Search},
		Analytics:    &AnalyticsHandler{analyticsService: services.Analytics},
	}
}

// respondError maps service sentinel errors to HTTP status codes.
// Service errors may be wrapped, so match with errors.Is.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLastOwner):
		c.JSON(http.StatusConflict, gin.H{"error": "Organization must keep at least one owner"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
