package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-assistant/internal/service"
)

// maxUploadSize bounds Excel uploads
const maxUploadSize = 10 << 20

// AdminHandler handles catalog maintenance HTTP requests
type AdminHandler struct {
	adminService *service.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Reload handles POST /api/v1/admin/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	n, err := h.adminService.Reload(c.Request.Context())
	if err != nil {
		h.logger.Error("catalog reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload catalog: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "properties": n})
}

// Upload handles POST /api/v1/admin/upload with a multipart "file" field
func (h *AdminHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Excel (.xlsx) files are supported"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload: " + err.Error()})
		return
	}
	defer file.Close()

	n, err := h.adminService.Upload(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrUploadUnsupported) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("catalog upload failed", zap.String("file", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import workbook: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Catalog updated",
		"properties": n,
	})
}
