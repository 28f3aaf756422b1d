package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/api/middleware"
	"example.com/motormart/services/showroom/internal/services"
)

// UsersHandler handles tenant account administration requests.
type UsersHandler struct {
	adminService *services.AdminService
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(adminService *services.AdminService) *UsersHandler {
	return &UsersHandler{adminService: adminService}
}

// CreateUserRequest is the incoming account creation body.
type CreateUserRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role"`
	ShowroomName string `json:"showroomName"`
	CNIC         string `json:"cnic"`
}

// CreateUser registers a new account.
func (h *UsersHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := h.adminService.CreateTenant(c.Request.Context(), middleware.Identity(c), services.CreateTenantRequest{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		ShowroomName: req.ShowroomName,
		CNIC:         req.CNIC,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// ListUsers returns every account.
func (h *UsersHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListTenants(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// DeleteUser removes an account and its stock.
func (h *UsersHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id must be a UUID"})
		return
	}

	if err := h.adminService.DeleteTenant(c.Request.Context(), middleware.Identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account and its stock removed"})
}

// RegisterRoutes registers the handler's routes.
func (h *UsersHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/users", h.CreateUser)
	group.GET("/users", h.ListUsers)
	group.DELETE("/users/:id", h.DeleteUser)
}
