package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperengineering/ayurcare/internal/types"
	"github.com/oklog/ulid/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore is the SQLite-backed implementation of Store.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath, applies pragmas
// and runs migrations. ":memory:" gives a private in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every new connection to ":memory:" is a fresh, empty database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// enablePragmas sets SQLite pragmas for performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(se.Error(), "UNIQUE constraint failed")
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- users ---

// CreateUser inserts a new account. Returns ErrDuplicateUser when the
// normalised email is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (*types.User, error) {
	u := &types.User{
		ID:           ulid.Make().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    s.now().Truncate(time.Second),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

// FindByEmail returns the account for email or ErrNotFound.
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	var u types.User
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = ?
	`, NormalizeEmail(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)

	return &u, nil
}

// UpdatePassword replaces the stored hash. Returns ErrNotFound for an
// unknown email.
func (s *SQLiteStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ? WHERE email = ?
	`, passwordHash, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// --- reset codes ---

// SaveResetCode stores code for email, replacing any earlier code.
func (s *SQLiteStore) SaveResetCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reset_codes (email, code, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET code = excluded.code, expires_at = excluded.expires_at
	`, NormalizeEmail(email), code, formatTime(expiresAt))
	if err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}
	return nil
}

// GetResetCode returns the pending code for email, expired or not, or
// ErrNotFound. Callers decide what to do with an expired code.
func (s *SQLiteStore) GetResetCode(ctx context.Context, email string) (*types.ResetCode, error) {
	var rc types.ResetCode
	var expiresAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT email, code, expires_at FROM reset_codes WHERE email = ?
	`, NormalizeEmail(email)).Scan(&rc.Email, &rc.Code, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query reset code: %w", err)
	}
	rc.ExpiresAt = parseTime(expiresAt)

	return &rc, nil
}

// DeleteResetCode removes the code for email. Deleting a missing code is
// not an error.
func (s *SQLiteStore) DeleteResetCode(ctx context.Context, email string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reset_codes WHERE email = ?`, NormalizeEmail(email)); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	return nil
}

// PurgeExpiredResetCodes deletes codes that expired before now.
func (s *SQLiteStore) PurgeExpiredResetCodes(ctx context.Context, now time.Time) (int64, error) {
	return s.purge(ctx, "reset_codes", now)
}

// --- sessions ---

// GetSession returns the data for a live session, or ErrNotFound when the
// session is missing or expired at now.
func (s *SQLiteStore) GetSession(ctx context.Context, id string, now time.Time) ([]byte, error) {
	var data []byte
	var expiresAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT data, expires_at FROM sessions WHERE id = ?
	`, id).Scan(&data, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	if now.After(parseTime(expiresAt)) {
		return nil, ErrNotFound
	}

	return data, nil
}

// PutSession creates or replaces the data for a session.
func (s *SQLiteStore) PutSession(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`, id, data, formatTime(expiresAt))
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// DeleteSession removes a session. Deleting a missing session is not an
// error.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes sessions that expired before now.
func (s *SQLiteStore) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.purge(ctx, "sessions", now)
}

// purge deletes expired rows from a table with an RFC 3339 expires_at
// column. table is always a constant supplied by this package.
func (s *SQLiteStore) purge(ctx context.Context, table string, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE expires_at < ?", formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

// --- appointments ---

const appointmentColumns = `id, patient_name, patient_email, patient_phone, doctor_type,
	health_issue, appointment_date, appointment_time, status, created_at`

// CreateAppointment books a slot. Returns ErrDuplicateAppointment when the
// same email already holds that date and time.
func (s *SQLiteStore) CreateAppointment(ctx context.Context, in types.NewAppointment) (*types.Appointment, error) {
	a := &types.Appointment{
		ID:              ulid.Make().String(),
		PatientName:     strings.TrimSpace(in.PatientName),
		PatientEmail:    NormalizeEmail(in.PatientEmail),
		PatientPhone:    strings.TrimSpace(in.PatientPhone),
		DoctorType:      strings.TrimSpace(in.DoctorType),
		HealthIssue:     strings.TrimSpace(in.HealthIssue),
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		Status:          types.AppointmentConfirmed,
		CreatedAt:       s.now().Truncate(time.Second),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.PatientName, a.PatientEmail, a.PatientPhone, a.DoctorType,
		a.HealthIssue, a.AppointmentDate, a.AppointmentTime, string(a.Status), formatTime(a.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAppointment
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	return a, nil
}

// ListAppointments returns every appointment, newest first.
func (s *SQLiteStore) ListAppointments(ctx context.Context) ([]types.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []types.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return appointments, nil
}

// GetAppointment returns one appointment by ID or ErrNotFound.
func (s *SQLiteStore) GetAppointment(ctx context.Context, id string) (*types.Appointment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+` FROM appointments WHERE id = ?
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return a, nil
}

func scanAppointment(scanner interface{ Scan(...any) error }) (*types.Appointment, error) {
	var a types.Appointment
	var status, createdAt string

	err := scanner.Scan(
		&a.ID,
		&a.PatientName,
		&a.PatientEmail,
		&a.PatientPhone,
		&a.DoctorType,
		&a.HealthIssue,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = types.AppointmentStatus(status)
	a.CreatedAt = parseTime(createdAt)

	return &a, nil
}

// --- consultations and feedback ---

// SaveConsultation stores a consult request and returns it with ID and
// timestamp set.
func (s *SQLiteStore) SaveConsultation(ctx context.Context, c types.Consultation) (*types.Consultation, error) {
	c.ID = ulid.Make().String()
	c.UserEmail = NormalizeEmail(c.UserEmail)
	c.CreatedAt = s.now().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consultations (id, user_email, name, disease, doctor_type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserEmail, c.Name, c.Disease, c.DoctorType, c.Description, formatTime(c.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert consultation: %w", err)
	}

	return &c, nil
}

// SaveFeedback stores a feedback message.
func (s *SQLiteStore) SaveFeedback(ctx context.Context, f types.Feedback) (*types.Feedback, error) {
	f.ID = ulid.Make().String()
	f.CreatedAt = s.now().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.Name, f.Email, f.Message, formatTime(f.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	return &f, nil
}

// GetStats returns aggregate store statistics.
func (s *SQLiteStore) GetStats(ctx context.Context) (*types.StoreStats, error) {
	var stats types.StoreStats

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&stats.UserCount); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM appointments").Scan(&stats.AppointmentCount); err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}

	return &stats, nil
}
