package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/api/middleware"
	"example.com/motormart/services/showroom/internal/services"
)

// MovementsHandler serves the stock movement history.
type MovementsHandler struct {
	reportingService *services.ReportingService
}

// NewMovementsHandler creates a new movements handler.
func NewMovementsHandler(reportingService *services.ReportingService) *MovementsHandler {
	return &MovementsHandler{reportingService: reportingService}
}

// ListMovements returns the audit trail, filtered by query parameters.
func (h *MovementsHandler) ListMovements(c *gin.Context) {
	req := services.ListMovementsRequest{Status: c.Query("status")}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "from must be RFC 3339"})
			return
		}
		req.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "to must be RFC 3339"})
			return
		}
		req.To = t
	}
	if sid := c.Query("showroomId"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "showroomId must be a UUID"})
			return
		}
		req.ShowroomID = id
	}

	events, err := h.reportingService.ListMovements(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "movements": events})
}

// RegisterRoutes registers the handler's routes.
func (h *MovementsHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/movements", h.ListMovements)
}
