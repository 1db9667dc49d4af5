package handlers

import (
	"errors"

	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to a status code and a stable error
// code string. Storage failures collapse to INTERNAL_ERROR with no
// detail about the underlying store.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(401, gin.H{"error": "Invalid credentials", "code": "INVALID_CREDENTIALS"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(403, gin.H{"error": "Insufficient permissions", "code": "FORBIDDEN"})
	case errors.As(err, &validationErr):
		c.JSON(400, gin.H{"error": validationErr.Error(), "code": "VALIDATION_ERROR", "details": validationErr.Messages})
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(409, gin.H{"error": "Email is already taken", "code": "DUPLICATE_EMAIL"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": "Not found", "code": "NOT_FOUND"})
	case errors.Is(err, services.ErrInvalidOperation):
		c.JSON(400, gin.H{"error": "Cannot delete your own account", "code": "INVALID_OPERATION"})
	default:
		c.JSON(500, gin.H{"error": "Internal server error", "code": "INTERNAL_ERROR"})
	}
}
