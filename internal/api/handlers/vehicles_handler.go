package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/api/middleware"
	"example.com/motormart/services/showroom/internal/services"
)

// VehiclesHandler handles stock-in and stock listing requests.
type VehiclesHandler struct {
	stockService     *services.StockService
	reportingService *services.ReportingService
}

// NewVehiclesHandler creates a new vehicles handler.
func NewVehiclesHandler(stockService *services.StockService, reportingService *services.ReportingService) *VehiclesHandler {
	return &VehiclesHandler{stockService: stockService, reportingService: reportingService}
}

// AddVehicleRequest is the incoming stock-in request body.
type AddVehicleRequest struct {
	VehicleType   string `json:"vehicleType" binding:"required"`
	Brand         string `json:"brand" binding:"required"`
	Model         string `json:"model" binding:"required"`
	Price         int64  `json:"price" binding:"required"`
	Color         string `json:"color"`
	EngineNumber  string `json:"engineNumber" binding:"required"`
	ChassisNumber string `json:"chassisNumber" binding:"required"`
	Partner       string `json:"partner"`
	PartnerCNIC   string `json:"partnerCNIC"`
}

// AddVehicle books a vehicle into stock.
func (h *VehiclesHandler) AddVehicle(c *gin.Context) {
	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	vehicle, err := h.stockService.AddVehicle(c.Request.Context(), middleware.Identity(c), services.AddVehicleRequest{
		VehicleType:   req.VehicleType,
		Brand:         req.Brand,
		Model:         req.Model,
		Price:         req.Price,
		Color:         req.Color,
		EngineNumber:  req.EngineNumber,
		ChassisNumber: req.ChassisNumber,
		Partner:       req.Partner,
		PartnerCNIC:   req.PartnerCNIC,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"vehicle": vehicle,
		"message": "Vehicle added to stock",
	})
}

// ListVehicles returns the stock book for one category.
func (h *VehiclesHandler) ListVehicles(c *gin.Context) {
	req := services.ListVehiclesRequest{
		VehicleType: c.Query("vehicleType"),
		Status:      c.Query("status"),
		Brand:       c.Query("brand"),
	}
	if sid := c.Query("showroomId"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "showroomId must be a UUID"})
			return
		}
		req.ShowroomID = id
	}

	vehicles, err := h.reportingService.ListVehicles(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": vehicles})
}

// RegisterRoutes registers the handler's routes.
func (h *VehiclesHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/vehicles", h.AddVehicle)
	group.GET("/vehicles", h.ListVehicles)
}
