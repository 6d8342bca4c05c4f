package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AppointmentController handles HTTP requests related to appointments
type AppointmentController interface {
	// ListAppointments returns the appointments visible to the caller
	ListAppointments(c *gin.Context)
	// CreateAppointment books an appointment for the caller
	CreateAppointment(c *gin.Context)
	// DeleteAppointment deletes an appointment by its ID
	DeleteAppointment(c *gin.Context)
}

type appointmentController struct {
	service services.AppointmentService
}

// NewAppointmentController creates a new instance of AppointmentController
func NewAppointmentController(service services.AppointmentService) AppointmentController {
	return &appointmentController{service: service}
}

// createAppointmentRequest requires the date and time keys; their values are opaque and may be empty
type createAppointmentRequest struct {
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Description string  `json:"description"`
}

// ListAppointments godoc
// @Summary List appointments
// @Description Admins get every appointment, other users only their own
// @Tags appointments
// @Produce json
// @Success 200 {array} models.AppointmentResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /appointments [get]
func (ac *appointmentController) ListAppointments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	appointments, err := ac.service.ListAppointments(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		response = append(response, appointments[i].ToResponse())
	}
	c.JSON(http.StatusOK, response)
}

// CreateAppointment godoc
// @Summary Create an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body createAppointmentRequest true "Date, time and optional description"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /appointments [post]
func (ac *appointmentController) CreateAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == nil || req.Time == nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgInvalidBody))
		return
	}

	if _, err := ac.service.CreateAppointment(c.Request.Context(), user, *req.Date, *req.Time, req.Description); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Appointment created"})
}

// DeleteAppointment godoc
// @Summary Delete an appointment
// @Description Owners may delete their own appointments, admins any appointment
// @Tags appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /appointments/{id} [delete]
func (ac *appointmentController) DeleteAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id", services.ErrAppointmentNotFound)
	if !ok {
		return
	}

	if err := ac.service.DeleteAppointment(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Appointment deleted"})
}
