package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperengineering/ayurcare/internal/types"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAppointment() types.NewAppointment {
	return types.NewAppointment{
		PatientName:     "Test Patient",
		PatientEmail:    "Test@Example.com",
		PatientPhone:    "+1234567890",
		DoctorType:      "General Physician",
		HealthIssue:     "Regular checkup",
		AppointmentDate: "2026-10-16",
		AppointmentTime: "10:00 AM",
	}
}

func TestStore_NewSQLiteStore(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.UserCount != 0 || stats.AppointmentCount != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
}

func TestStore_CreateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "  Asha@Example.COM ", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.ID == "" {
		t.Error("expected ID to be set")
	}
	if u.Email != "asha@example.com" {
		t.Errorf("Email = %q, want normalised", u.Email)
	}

	got, err := s.FindByEmail(ctx, "ASHA@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "hash-1" {
		t.Errorf("FindByEmail() = %+v, want %+v", got, u)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, u.CreatedAt)
	}
}

func TestStore_CreateUser_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "asha@example.com", "h"); err != nil {
		t.Fatalf("first CreateUser() error = %v", err)
	}

	_, err := s.CreateUser(ctx, "ASHA@example.com", "h2")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("second CreateUser() error = %v, want ErrDuplicateUser", err)
	}
}

func TestStore_FindByEmail_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_UpdatePassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "asha@example.com", "old"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdatePassword(ctx, "Asha@Example.com", "new"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	u, err := s.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.PasswordHash != "new" {
		t.Errorf("PasswordHash = %q, want new", u.PasswordHash)
	}

	if err := s.UpdatePassword(ctx, "ghost@example.com", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePassword(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ResetCodes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	expires := time.Date(2026, 10, 15, 12, 15, 0, 0, time.UTC)

	if _, err := s.GetResetCode(ctx, "a@b.co"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetResetCode(empty) error = %v, want ErrNotFound", err)
	}

	if err := s.SaveResetCode(ctx, "A@B.co", "012345", expires); err != nil {
		t.Fatalf("SaveResetCode() error = %v", err)
	}
	rc, err := s.GetResetCode(ctx, "a@b.co")
	if err != nil {
		t.Fatalf("GetResetCode() error = %v", err)
	}
	if rc.Code != "012345" || !rc.ExpiresAt.Equal(expires) {
		t.Errorf("GetResetCode() = %+v", rc)
	}

	// A second request replaces the first code.
	if err := s.SaveResetCode(ctx, "a@b.co", "999999", expires.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	rc, err = s.GetResetCode(ctx, "a@b.co")
	if err != nil {
		t.Fatal(err)
	}
	if rc.Code != "999999" {
		t.Errorf("Code = %q, want replaced code", rc.Code)
	}

	if err := s.DeleteResetCode(ctx, "a@b.co"); err != nil {
		t.Fatalf("DeleteResetCode() error = %v", err)
	}
	if _, err := s.GetResetCode(ctx, "a@b.co"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteResetCode(ctx, "a@b.co"); err != nil {
		t.Errorf("DeleteResetCode(missing) error = %v, want nil", err)
	}
}

func TestStore_PurgeExpiredResetCodes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	if err := s.SaveResetCode(ctx, "old@b.co", "111111", now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveResetCode(ctx, "new@b.co", "222222", now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	n, err := s.PurgeExpiredResetCodes(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpiredResetCodes() error = %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}
	if _, err := s.GetResetCode(ctx, "new@b.co"); err != nil {
		t.Errorf("live code was purged: %v", err)
	}
}

func TestStore_Sessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	if err := s.PutSession(ctx, "sid-1", []byte(`{"a":1}`), now.Add(time.Hour)); err != nil {
		t.Fatalf("PutSession() error = %v", err)
	}
	data, err := s.GetSession(ctx, "sid-1", now)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if !bytes.Equal(data, []byte(`{"a":1}`)) {
		t.Errorf("data = %s", data)
	}

	if err := s.PutSession(ctx, "sid-1", []byte(`{"a":2}`), now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	data, _ = s.GetSession(ctx, "sid-1", now)
	if !bytes.Equal(data, []byte(`{"a":2}`)) {
		t.Errorf("data after overwrite = %s", data)
	}

	if _, err := s.GetSession(ctx, "sid-1", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired GetSession() error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteSession(ctx, "sid-1"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := s.GetSession(ctx, "sid-1", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted GetSession() error = %v, want ErrNotFound", err)
	}
}

func TestStore_PurgeExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	for i, exp := range []time.Time{now.Add(-2 * time.Hour), now.Add(-time.Second), now.Add(time.Hour)} {
		id := string(rune('a' + i))
		if err := s.PutSession(ctx, id, []byte("{}"), exp); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.PurgeExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpiredSessions() error = %v", err)
	}
	if n != 2 {
		t.Errorf("purged = %d, want 2", n)
	}
}

func TestStore_CreateAppointment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAppointment(ctx, sampleAppointment())
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}
	if a.ID == "" {
		t.Error("expected ID to be set")
	}
	if a.Status != types.AppointmentConfirmed {
		t.Errorf("Status = %q, want confirmed", a.Status)
	}
	if a.PatientEmail != "test@example.com" {
		t.Errorf("PatientEmail = %q, want normalised", a.PatientEmail)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment() error = %v", err)
	}
	if got.PatientName != "Test Patient" || got.AppointmentDate != "2026-10-16" || got.AppointmentTime != "10:00 AM" {
		t.Errorf("GetAppointment() = %+v", got)
	}
}

func TestStore_CreateAppointment_DuplicateSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateAppointment(ctx, sampleAppointment()); err != nil {
		t.Fatal(err)
	}

	dup := sampleAppointment()
	dup.PatientEmail = "TEST@example.com"
	dup.PatientName = "Someone Else"
	if _, err := s.CreateAppointment(ctx, dup); !errors.Is(err, ErrDuplicateAppointment) {
		t.Errorf("duplicate error = %v, want ErrDuplicateAppointment", err)
	}

	other := sampleAppointment()
	other.AppointmentTime = "11:00 AM"
	if _, err := s.CreateAppointment(ctx, other); err != nil {
		t.Errorf("different time should be accepted: %v", err)
	}
}

func TestStore_ListAppointments_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, tm := range []string{"09:00", "10:00", "11:00"} {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		in := sampleAppointment()
		in.AppointmentTime = tm
		a, err := s.CreateAppointment(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, a.ID)
	}

	list, err := s.ListAppointments(ctx)
	if err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if list[i].ID != want {
			t.Errorf("list[%d].ID = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestStore_ListAppointments_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	list, err := s.ListAppointments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestStore_GetAppointment_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetAppointment(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveConsultationAndFeedback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.SaveConsultation(ctx, types.Consultation{
		UserEmail: "Asha@Example.com", Name: "Asha", Disease: "fever", DoctorType: "Ayurvedic",
	})
	if err != nil {
		t.Fatalf("SaveConsultation() error = %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() || c.UserEmail != "asha@example.com" {
		t.Errorf("SaveConsultation() = %+v", c)
	}

	f, err := s.SaveFeedback(ctx, types.Feedback{Name: "A", Email: "a@b.co", Message: "Great"})
	if err != nil {
		t.Fatalf("SaveFeedback() error = %v", err)
	}
	if f.ID == "" || f.Message != "Great" {
		t.Errorf("SaveFeedback() = %+v", f)
	}
}

func TestStore_GetStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "a@b.co", "h"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAppointment(ctx, sampleAppointment()); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.UserCount != 1 || stats.AppointmentCount != 1 {
		t.Errorf("stats = %+v, want 1/1", stats)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  MiXeD@Case.ORG\t"); got != "mixed@case.org" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}
