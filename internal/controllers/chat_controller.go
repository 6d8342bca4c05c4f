package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ChatController struct {
	messageService services.MessageService
}

func NewChatController(messageService services.MessageService) *ChatController {
	return &ChatController{messageService: messageService}
}

// GetMessages godoc
// @Summary Recent chat messages
// @Description The 100 most recent messages, oldest first
// @Tags chat
// @Produce json
// @Success 200 {array} models.Message
// @Failure 500 {object} models.ErrorResponse
// @Router /messages [get]
func (cc *ChatController) GetMessages(c *gin.Context) {
	messages, err := cc.messageService.RecentMessages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, messages)
}
