package types

import (
	"time"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked consultation slot.
type Appointment struct {
	ID              string            `json:"id"`
	PatientName     string            `json:"patient_name"`
	PatientEmail    string            `json:"patient_email"`
	PatientPhone    string            `json:"patient_phone"`
	DoctorType      string            `json:"doctor_type"`
	HealthIssue     string            `json:"health_issue"`
	AppointmentDate string            `json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string            `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// NewAppointment is the input for booking (without generated fields).
// Date must already be normalised to YYYY-MM-DD.
type NewAppointment struct {
	PatientName     string
	PatientEmail    string
	PatientPhone    string
	DoctorType      string
	HealthIssue     string
	AppointmentDate string
	AppointmentTime string
}

// SaveAppointmentRequest is the JSON body of POST /api/save_appointment.
type SaveAppointmentRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DoctorType      string `json:"doctor_type"`
	Issue           string `json:"issue"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

// SaveAppointmentResponse is returned when a booking is stored.
type SaveAppointmentResponse struct {
	Status        string       `json:"status"`
	Message       string       `json:"message"`
	AppointmentID string       `json:"appointment_id"`
	Appointment   *Appointment `json:"appointment"`
}

// AppointmentListResponse is returned by GET /api/appointments.
type AppointmentListResponse struct {
	Status       string        `json:"status"`
	Count        int           `json:"count"`
	Appointments []Appointment `json:"appointments"`
}

// AppointmentResponse is returned by GET /api/appointments/{id}.
type AppointmentResponse struct {
	Status      string       `json:"status"`
	Appointment *Appointment `json:"appointment"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	Version          string `json:"version"`
	AppointmentCount int64  `json:"appointment_count"`
}

// Consultation is a consult request submitted from the web form.
type Consultation struct {
	ID          string    `json:"id"`
	UserEmail   string    `json:"user_email"`
	Name        string    `json:"name"`
	Disease     string    `json:"disease"`
	DoctorType  string    `json:"doctor_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feedback is a message left through the feedback form.
type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ResetCode is a pending password-reset code for one account.
type ResetCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at now.
func (r ResetCode) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// StoreStats summarises stored records.
type StoreStats struct {
	UserCount        int64 `json:"user_count"`
	AppointmentCount int64 `json:"appointment_count"`
}
