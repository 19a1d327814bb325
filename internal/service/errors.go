package service

import "errors"

var (
	// ErrSessionNotFound is returned for an unknown or expired session id
	ErrSessionNotFound = errors.New("session not found")
	// ErrPropertyNotFound is returned when no catalog entry matches
	ErrPropertyNotFound = errors.New("property not found")
	// ErrMissingAPIKey is returned when an external collaborator has no credentials
	ErrMissingAPIKey = errors.New("API key not configured")
	// ErrNoCoordinates is returned when a property has no latitude/longitude
	ErrNoCoordinates = errors.New("property has no coordinates")
	// ErrAppointmentNotFound is returned for an unknown appointment id
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrInvalidStatus is returned for an unknown appointment status
	ErrInvalidStatus = errors.New("invalid appointment status")
)
