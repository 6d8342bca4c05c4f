package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-appointment-api/internal/middleware"
	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto status codes. Unknown errors are logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgUsernameTaken))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.MsgInvalidCredentials))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.NewErrorResponse(models.MsgForbidden))
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse(models.MsgUserNotFound))
	case errors.Is(err, services.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse(models.MsgAppointmentMissing))
	case errors.Is(err, services.ErrClientNotFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse(models.MsgClientNotFound))
	case errors.Is(err, services.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgInvalidRole))
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(err.Error()))
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.MsgInternal))
	}
}

// pathID reads a numeric path parameter. A missing or non-numeric id answers with notFound.
func pathID(c *gin.Context, name string, notFound error) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, notFound)
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the caller loaded by middleware.JWTAuth
func currentUser(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.MsgTokenMissing))
		return nil, false
	}
	return user, true
}
