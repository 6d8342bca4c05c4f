package services

import "errors"

var (
	ErrUserAlreadyExists   = errors.New("user_already_exists")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrAppointmentNotFound = errors.New("appointment_not_found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrClientNotFound      = errors.New("client_not_found")
	ErrInvalidInput        = errors.New("invalid_input")
)
