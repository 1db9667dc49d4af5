package middleware

import (
	"strings"

	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the HTTP-only cookie carrying the session token.
const SessionCookie = "admin-token"

// sessionToken extracts the token from the session cookie or, for API
// clients, from a bearer Authorization header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.JSON(401, gin.H{"error": "Authentication required", "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		user := authService.VerifySession(token)
		if user == nil {
			c.JSON(401, gin.H{"error": "Invalid or expired session", "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the session when one is presented but
// lets unauthenticated requests through. Used by the bootstrap-aware
// admin creation route, which needs no session while the store is
// empty.
func OptionalAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := sessionToken(c); token != "" {
			if user := authService.VerifySession(token); user != nil {
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

func RequireRole(minimum models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(401, gin.H{"error": "Authentication required", "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		if !user.Role.AtLeast(minimum) {
			c.JSON(403, gin.H{"error": "Insufficient permissions", "code": "FORBIDDEN"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by the auth
// middleware, or nil.
func CurrentUser(c *gin.Context) *models.AdminUser {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, _ := value.(*models.AdminUser)
	return user
}
