package store

import (
	"context"
	"time"

	"github.com/hyperengineering/ayurcare/internal/types"
)

// mockStore is a compile-time check that the Store interface can be implemented.
type mockStore struct{}

var _ Store = (*mockStore)(nil)

func (m *mockStore) CreateUser(ctx context.Context, email, passwordHash string) (*types.User, error) {
	return nil, nil
}
func (m *mockStore) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	return nil, nil
}
func (m *mockStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return nil
}
func (m *mockStore) SaveResetCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	return nil
}
func (m *mockStore) GetResetCode(ctx context.Context, email string) (*types.ResetCode, error) {
	return nil, nil
}
func (m *mockStore) DeleteResetCode(ctx context.Context, email string) error {
	return nil
}
func (m *mockStore) PurgeExpiredResetCodes(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
func (m *mockStore) GetSession(ctx context.Context, id string, now time.Time) ([]byte, error) {
	return nil, nil
}
func (m *mockStore) PutSession(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	return nil
}
func (m *mockStore) DeleteSession(ctx context.Context, id string) error {
	return nil
}
func (m *mockStore) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
func (m *mockStore) CreateAppointment(ctx context.Context, a types.NewAppointment) (*types.Appointment, error) {
	return nil, nil
}
func (m *mockStore) ListAppointments(ctx context.Context) ([]types.Appointment, error) {
	return nil, nil
}
func (m *mockStore) GetAppointment(ctx context.Context, id string) (*types.Appointment, error) {
	return nil, nil
}
func (m *mockStore) SaveConsultation(ctx context.Context, c types.Consultation) (*types.Consultation, error) {
	return nil, nil
}
func (m *mockStore) SaveFeedback(ctx context.Context, f types.Feedback) (*types.Feedback, error) {
	return nil, nil
}
func (m *mockStore) GetStats(ctx context.Context) (*types.StoreStats, error) {
	return nil, nil
}
func (m *mockStore) Close() error {
	return nil
}
