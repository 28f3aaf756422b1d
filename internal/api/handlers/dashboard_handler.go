package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/api/middleware"
	"example.com/motormart/services/showroom/internal/services"
)

// DashboardHandler serves the per-category stock summary.
type DashboardHandler struct {
	reportingService *services.ReportingService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(reportingService *services.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingService: reportingService}
}

// Dashboard returns stock counts per category.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	var showroomID uuid.UUID
	if sid := c.Query("showroomId"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "showroomId must be a UUID"})
			return
		}
		showroomID = id
	}

	counts, err := h.reportingService.Dashboard(c.Request.Context(), middleware.Identity(c), showroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": counts})
}

// RegisterRoutes registers the handler's routes.
func (h *DashboardHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/dashboard", h.Dashboard)
}
