package model

import "time"

// Appointment statuses
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a property visit request
type Appointment struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	PropertyName string    `json:"property_name,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AppointmentUpdate holds the mutable fields of an appointment
type AppointmentUpdate struct {
	Date    *string `json:"date,omitempty"`
	Time    *string `json:"time,omitempty"`
	Message *string `json:"message,omitempty"`
	Status  *string `json:"status,omitempty"`
}
