package handlers

import (
	"storepanel/internal/api/middleware"
	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type CreateAdminRequest struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name" binding:"required"`
	Role     models.Role `json:"role"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ListAdmins returns all admin users (super admin only)
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins(middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"admins": admins})
}

// CreateAdmin creates a new admin user. The route carries optional
// auth: with an empty store this is the bootstrap path and needs no
// session, otherwise the acting user must be a super admin.
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Email, password and name are required", "code": "VALIDATION_ERROR"})
		return
	}

	admin, err := h.adminService.CreateAdmin(services.CreateAdminInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, admin)
}

// DeleteAdmin deletes an admin user (super admin only, never self)
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	if err := h.adminService.DeleteAdmin(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Admin user deleted successfully"})
}

// UpdateProfile updates the current user's name and email
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Name and email are required", "code": "VALIDATION_ERROR"})
		return
	}

	updated, err := h.adminService.UpdateProfile(user.ID, req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, updated)
}

// UpdatePassword changes the current user's password
func (h *AdminHandler) UpdatePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Current password and new password are required", "code": "VALIDATION_ERROR"})
		return
	}

	if err := h.adminService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Password updated successfully"})
}
