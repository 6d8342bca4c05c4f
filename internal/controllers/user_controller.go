package controllers

import (
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController serves the admin-only user management routes.
// Role checks happen in middleware.RequireRole before these handlers run.
type UserController struct {
	userService services.UserService
}

func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

type roleRequest struct {
	Role string `json:"role"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.UserResponse, 0, len(users))
	for i := range users {
		response = append(response, users[i].ToResponse())
	}
	c.JSON(http.StatusOK, response)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description The user's appointments are kept
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrUserNotFound)
	if !ok {
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "User deleted"})
}

// UpdateRole godoc
// @Summary Change a user's role
// @Description Role must be exactly "admin" or "user"
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param role body roleRequest true "New role"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/role [patch]
func (uc *UserController) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id", services.ErrUserNotFound)
	if !ok {
		return
	}

	// an unreadable body leaves Role empty, which SetRole rejects after the existence check
	var req roleRequest
	_ = c.ShouldBindJSON(&req)

	user, err := uc.userService.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("User role updated to %s", user.Role)})
}
