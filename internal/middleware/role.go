package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It must run after JWTAuth.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get user info from context (set by JWTAuth middleware)
		if _, exists := c.Get(UserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewErrorResponse(models.MsgTokenMissing))
			return
		}

		role, exists := c.Get(UserRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewErrorResponse(models.MsgForbidden))
			return
		}

		if userRole, ok := role.(string); !ok || userRole != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewErrorResponse(models.MsgForbidden))
			return
		}

		c.Next()
	}
}
