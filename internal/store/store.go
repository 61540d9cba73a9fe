package store

import (
	"context"
	"time"

	"github.com/hyperengineering/ayurcare/internal/types"
)

// UserStore persists accounts. Emails are stored trimmed and lower-cased.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*types.User, error)
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// ResetTokenStore holds at most one pending reset code per email.
type ResetTokenStore interface {
	SaveResetCode(ctx context.Context, email, code string, expiresAt time.Time) error
	GetResetCode(ctx context.Context, email string) (*types.ResetCode, error)
	DeleteResetCode(ctx context.Context, email string) error
	PurgeExpiredResetCodes(ctx context.Context, now time.Time) (int64, error)
}

// SessionStore is a key-value store for opaque per-session data.
type SessionStore interface {
	GetSession(ctx context.Context, id string, now time.Time) ([]byte, error)
	PutSession(ctx context.Context, id string, data []byte, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AppointmentStore persists bookings from the appointment API.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a types.NewAppointment) (*types.Appointment, error)
	ListAppointments(ctx context.Context) ([]types.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*types.Appointment, error)
}

// RecordStore persists write-only form submissions.
type RecordStore interface {
	SaveConsultation(ctx context.Context, c types.Consultation) (*types.Consultation, error)
	SaveFeedback(ctx context.Context, f types.Feedback) (*types.Feedback, error)
}

// Store is the full persistence contract of the service.
type Store interface {
	UserStore
	ResetTokenStore
	SessionStore
	AppointmentStore
	RecordStore
	GetStats(ctx context.Context) (*types.StoreStats, error)
	Close() error
}
