package middleware

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/auth"
	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Context keys set by JWTAuth
const (
	CurrentUserKey = "currentUser"
	UserIDKey      = "userID"
	UserRoleKey    = "userRole"
)

// JWTAuth validates the Bearer token and loads the caller from the store.
// The token must parse and its user must still exist, otherwise the request ends with 401.
func JWTAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			status, message := authFailure(err)
			if status == http.StatusInternalServerError {
				log.WithError(err).Error("Failed to authenticate request")
			} else {
				log.WithError(err).Debug("Rejected bearer token")
			}
			c.AbortWithStatusJSON(status, models.NewErrorResponse(message))
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.Role)
		c.Next()
	}
}

func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, models.MsgTokenMissing
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, models.MsgTokenExpired
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusUnauthorized, models.MsgUserNotFound
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, models.MsgTokenInvalid
	default:
		return http.StatusInternalServerError, models.MsgInternal
	}
}

// CurrentUser returns the user stored by JWTAuth, or nil outside an authenticated route
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
