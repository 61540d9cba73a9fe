package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hyperengineering/ayurcare/internal/auth"
	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/wellness"
)

// ErrNoSession is returned by Load when the request carries no live
// session.
var ErrNoSession = errors.New("no session")

// BMIForm is the calculator form as last echoed back to the user.
type BMIForm struct {
	Height   string `json:"height_cm"`
	Weight   string `json:"weight_kg"`
	Waist    string `json:"waist_cm"`
	Age      string `json:"age"`
	Sex      string `json:"sex"`
	Activity string `json:"activity"`
}

// SessionData is the server-side state of one login.
type SessionData struct {
	Email    string           `json:"email"`
	Wellness wellness.History `json:"wellness_history,omitempty"`
	LastBMI  *BMIForm         `json:"last_bmi,omitempty"`
}

// Session is a loaded login session.
type Session struct {
	ID        string
	ExpiresAt time.Time
	Data      SessionData
}

// SessionManager ties the signed session cookie to its data in the
// session store.
type SessionManager struct {
	store      store.SessionStore
	tokens     *auth.TokenIssuer
	cookieName string
	secure     bool
	logger     *slog.Logger
	now        func() time.Time
}

// NewSessionManager creates a SessionManager. secure marks the cookie
// HTTPS-only.
func NewSessionManager(st store.SessionStore, tokens *auth.TokenIssuer, cookieName string, secure bool, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		store:      st,
		tokens:     tokens,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger.With("component", "session"),
		now:        time.Now,
	}
}

// Start opens a new session for email and sets its cookie.
func (m *SessionManager) Start(ctx context.Context, w http.ResponseWriter, email string) (*Session, error) {
	sid := ulid.Make().String()

	token, exp, err := m.tokens.Issue(email, sid)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        sid,
		ExpiresAt: exp,
		Data:      SessionData{Email: email},
	}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Load returns the session of r. It returns ErrNoSession when the cookie
// is missing, invalid, or its data has expired.
func (m *SessionManager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}

	claims, err := m.tokens.Parse(c.Value)
	if err != nil {
		return nil, ErrNoSession
	}

	raw, err := m.store.GetSession(r.Context(), claims.SessionID(), m.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := &Session{ID: claims.SessionID()}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	if err := json.Unmarshal(raw, &s.Data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Data.Email != claims.Email() {
		return nil, ErrNoSession
	}
	return s, nil
}

// Save writes the session data back to the store.
func (m *SessionManager) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.PutSession(ctx, s.ID, raw, s.ExpiresAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy deletes the session, if any, and clears the cookie.
func (m *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	if s == nil {
		return nil
	}
	if err := m.store.DeleteSession(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Middleware attaches the request's session, when there is one, to its
// context.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Load(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				m.logger.Error("session load failed", "error", err, "path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// requireLogin redirects anonymous requests to the login page.
func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login_register", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
