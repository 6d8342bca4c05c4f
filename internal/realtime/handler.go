package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const persistTimeout = 5 * time.Second

// Handler upgrades /ws requests and relays chat frames through the hub
type Handler struct {
	hub      *Hub
	messages services.MessageService
	upgrader websocket.Upgrader
}

// NewHandler builds a Handler accepting connections from allowedOrigins ("*" allows any)
func NewHandler(hub *Hub, messages services.MessageService, allowedOrigins []string) *Handler {
	return &Handler{
		hub:      hub,
		messages: messages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ServeWS godoc
// @Summary Realtime chat
// @Description Upgrade to a websocket. Send {"event":"chat_message","data":{"username","message"}}; every connected client receives the same frame once stored.
// @Tags chat
// @Success 101
// @Router /ws [get]
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("Failed to upgrade websocket connection")
		return
	}

	client := NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleFrame)
}

// handleFrame stores a chat message and then broadcasts the frame unchanged.
// Anything that cannot be stored is answered with an error frame to the sender only.
func (h *Handler) handleFrame(client *Client, frame []byte) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		log.WithError(err).WithField("client_id", client.ID).Debug("Malformed websocket frame")
		h.hub.SendTo(client, NewErrorFrame("malformed frame"))
		return
	}
	if envelope.Event != EventChatMessage {
		h.hub.SendTo(client, NewErrorFrame("unknown event: "+envelope.Event))
		return
	}

	var payload ChatPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		h.hub.SendTo(client, NewErrorFrame("malformed chat message"))
		return
	}
	if strings.TrimSpace(payload.Username) == "" || strings.TrimSpace(payload.Message) == "" {
		h.hub.SendTo(client, NewErrorFrame("username and message are required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if _, err := h.messages.CreateMessage(ctx, payload.Username, payload.Message); err != nil {
		log.WithError(err).WithField("client_id", client.ID).Error("Failed to store chat message")
		h.hub.SendTo(client, NewErrorFrame("message could not be stored"))
		return
	}

	h.hub.Broadcast(frame)
}
