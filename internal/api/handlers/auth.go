package handlers

import (
	"net/http"

	"storepanel/internal/api/middleware"
	"storepanel/internal/config"
	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  *models.AdminUser `json:"user"`
}

// Login handles admin login and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Email and password are required", "code": "VALIDATION_ERROR"})
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(h.authService.SessionLifetime().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cfg.Server.Mode == "release", true)

	c.JSON(200, LoginResponse{
		Token: token,
		User:  user,
	})
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.Server.Mode == "release", true)
	c.JSON(200, gin.H{"message": "Logged out successfully"})
}

// GetMe returns the current user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(401, gin.H{"error": "Not authenticated", "code": "UNAUTHORIZED"})
		return
	}
	c.JSON(200, user)
}
