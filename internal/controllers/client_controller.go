package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/middleware"
	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ClientController struct {
	clientService services.ClientService
}

func NewClientController(clientService services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

type createClientRequest struct {
	Name   string `json:"name" binding:"required"`
	Domain string `json:"domain"`
}

// CreateClientResponse carries the plain secret, which is only ever shown here
type CreateClientResponse struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Name         string `json:"name"`
	Domain       string `json:"domain"`
}

// CreateClient godoc
// @Summary Create OAuth2 client
// @Description Register an API client allowed to use the password grant at /oauth/token
// @Tags OAuth2 Clients
// @Accept json
// @Produce json
// @Param client body createClientRequest true "Client details"
// @Success 201 {object} CreateClientResponse "Client created with client_id and client_secret"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MsgInvalidBody))
		return
	}

	client, secret, err := cc.clientService.CreateClient(c.Request.Context(), req.Name, req.Domain, c.GetUint(middleware.UserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateClientResponse{
		ClientID:     client.ID,
		ClientSecret: secret,
		Name:         client.Name,
		Domain:       client.Domain,
	})
}

// ListClients godoc
// @Summary List OAuth2 clients
// @Tags OAuth2 Clients
// @Produce json
// @Success 200 {array} models.OAuthClient "List of clients"
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	clients, err := cc.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if clients == nil {
		clients = []models.OAuthClient{}
	}
	c.JSON(http.StatusOK, clients)
}

// DeleteClient godoc
// @Summary Delete OAuth2 client
// @Tags OAuth2 Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	if err := cc.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Client deleted"})
}
