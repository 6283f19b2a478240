package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskora/taskora-backend/internal/api/middleware"
	"github.com/taskora/taskora-backend/internal/service"
)

// ============================================
// Analytics Handler
// ============================================

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func (h *AnalyticsHandler) OrgDashboard(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.analyticsService.OrgDashboard(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *AnalyticsHandler) ProjectDashboard(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.analyticsService.ProjectDashboard(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
