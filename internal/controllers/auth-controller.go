package controllers

import (
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthController(authService services.AuthService, userService services.UserService) *AuthController {
	return &AuthController{
		authService: authService,
		userService: userService,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginRequest has no required tags: empty fields are a failed login, not a bad body
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// Register godoc
// @Summary Register a user
// @Description Create an account with the "user" role
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Username and password"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse "Invalid body or username already exists"
// @Router /register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgInvalidBody))
		return
	}

	if _, err := ac.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Registration successful"})
}

// Login godoc
// @Summary Log in
// @Description Exchange username and password for a bearer token valid for two hours
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Username and password"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Router /login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgInvalidBody))
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// Dashboard godoc
// @Summary Greet the caller
// @Tags profile
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (ac *AuthController) Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Welcome, %s!", user.Username)})
}

// GetProfile godoc
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Change username and/or password. An empty username is ignored.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body profileRequest true "Fields to change"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse "Invalid body or username already exists"
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profile [put]
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgInvalidBody))
		return
	}

	update := services.ProfileUpdate{Username: req.Username, Password: req.Password}
	if _, err := ac.userService.UpdateProfile(c.Request.Context(), user.ID, update); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Profile updated"})
}
