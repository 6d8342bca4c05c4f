package realtime

import "encoding/json"

// Event names carried in Envelope.Event
const (
	EventChatMessage = "chat_message"
	EventError       = "error"
)

// Envelope is the JSON frame exchanged over the socket
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChatPayload is the data of a chat_message frame
type ChatPayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// NewErrorFrame builds an error frame addressed to a single client
func NewErrorFrame(message string) []byte {
	data, _ := json.Marshal(map[string]string{"error": message})
	frame, _ := json.Marshal(Envelope{Event: EventError, Data: data})
	return frame
}
