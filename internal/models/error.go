package models

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of write endpoints that only acknowledge
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by /login
type TokenResponse struct {
	Token string `json:"token"`
}

// Error messages returned to clients
const (
	MsgInvalidBody        = "Invalid request body"
	MsgTokenMissing       = "Token is required"
	MsgTokenExpired       = "Token has expired"
	MsgTokenInvalid       = "Invalid token"
	MsgUserNotFound       = "User not found"
	MsgUsernameTaken      = "Username already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgForbidden          = "Forbidden"
	MsgAppointmentMissing = "Appointment not found"
	MsgInvalidRole        = "Invalid role"
	MsgClientNotFound     = "Client not found"
	MsgInternal           = "Internal server error"
)

// NewErrorResponse wraps a message in the standard error body
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
