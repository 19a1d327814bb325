package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-assistant/internal/model"
	"property-assistant/internal/service"
)

// ScheduleHandler handles appointment HTTP requests
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	logger          *zap.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// Create handles POST /api/v1/schedule
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req model.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	a, err := h.scheduleService.Schedule(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to schedule visit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule visit: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Visit scheduled successfully",
		"appointment": a,
	})
}

// List handles GET /api/v1/admin/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	list, err := h.scheduleService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list, "count": len(list)})
}

// Update handles PUT /api/v1/admin/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	var update model.AppointmentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	a, err := h.scheduleService.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.appointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /api/v1/admin/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.scheduleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.appointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

func (h *ScheduleHandler) appointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("appointment request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
