package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskora/taskora-backend/internal/api/middleware"
	"github.com/taskora/taskora-backend/internal/models"
	"github.com/taskora/taskora-backend/internal/service"
)

// ============================================
// Attachment Handler
// ============================================

type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.attachmentService.Upload(c.Request.Context(), userID, c.Param("id"), fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ToAttachmentResponse(attachment))
}

func (h *AttachmentHandler) ListByTask(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	attachments, err := h.attachmentService.ListByTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToAttachmentResponses(attachments))
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	attachment, path, err := h.attachmentService.ResolvePath(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", attachment.ContentType)
	c.FileAttachment(path, attachment.FileName)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
