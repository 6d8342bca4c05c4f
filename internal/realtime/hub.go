package realtime

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
// All client bookkeeping happens on the goroutine running Run.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Frames for every connected client.
	broadcast chan []byte

	// Frames for a single client.
	direct chan directMessage

	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		direct:     make(chan directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			log.Info("Realtime hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
			log.WithFields(log.Fields{"client_id": client.ID, "total_clients": len(h.clients)}).Info("Client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.WithFields(log.Fields{"client_id": client.ID, "total_clients": len(h.clients)}).Info("Client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow listener, its write pump closes the connection
					h.drop(client)
					log.WithField("client_id", client.ID).Warn("Dropped slow client")
				}
			}
		case msg := <-h.direct:
			if _, ok := h.clients[msg.client]; !ok {
				continue
			}
			select {
			case msg.client.send <- msg.payload:
			default:
				h.drop(msg.client)
			}
		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// Register adds client to the broadcast set
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues message for every connected client. It returns false once the hub has stopped.
func (h *Hub) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	case <-h.done:
		return false
	}
}

// SendTo queues message for client only
func (h *Hub) SendTo(client *Client, message []byte) {
	select {
	case h.direct <- directMessage{client: client, payload: message}:
	case <-h.done:
	}
}

// ClientCount reports how many clients are registered
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}
