package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/api/middleware"
	"example.com/motormart/services/showroom/internal/services"
)

// SalesHandler handles the sale workflow and sales reporting requests.
type SalesHandler struct {
	saleService      *services.SaleService
	reportingService *services.ReportingService
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(saleService *services.SaleService, reportingService *services.ReportingService) *SalesHandler {
	return &SalesHandler{saleService: saleService, reportingService: reportingService}
}

// SubmitSaleRequest is the incoming sale request body.
type SubmitSaleRequest struct {
	VehicleType   string    `json:"vehicleType" binding:"required"`
	VehicleID     uuid.UUID `json:"vehicleId" binding:"required"`
	PaymentType   string    `json:"paymentType" binding:"required"`
	CustomerName  string    `json:"customerName" binding:"required"`
	CustomerCNIC  string    `json:"customerCNIC" binding:"required"`
	AdvanceAmount int64     `json:"advanceAmount"`
	Months        int       `json:"months"`
}

// SubmitSale records one sale.
func (h *SalesHandler) SubmitSale(c *gin.Context) {
	var req SubmitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	receipt, err := h.saleService.SubmitSale(c.Request.Context(), middleware.Identity(c), services.SubmitSaleRequest{
		VehicleType:   req.VehicleType,
		VehicleID:     req.VehicleID,
		PaymentType:   req.PaymentType,
		CustomerName:  req.CustomerName,
		CustomerCNIC:  req.CustomerCNIC,
		AdvanceAmount: req.AdvanceAmount,
		Months:        req.Months,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"sale":    receipt,
		"message": "Sale completed successfully",
	})
}

// ListSales returns the sale ledger, filtered by query parameters.
func (h *SalesHandler) ListSales(c *gin.Context) {
	req := services.ListSalesRequest{
		VehicleType: c.Query("vehicleType"),
		PaymentType: c.Query("paymentType"),
	}
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

	sales, err := h.reportingService.ListSales(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sales": sales})
}

// SearchSales runs a free-text search over the sales index.
func (h *SalesHandler) SearchSales(c *gin.Context) {
	docs, err := h.reportingService.SearchSales(c.Request.Context(), middleware.Identity(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "results": docs})
}

// RegisterRoutes registers the handler's routes.
func (h *SalesHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/sales", h.SubmitSale)
	group.GET("/sales", h.ListSales)
	group.GET("/sales/search", h.SearchSales)
}
