// Package account implements registration, login and the reset-code flow
// on top of the user and reset-code stores.
package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/hyperengineering/ayurcare/internal/auth"
	"github.com/hyperengineering/ayurcare/internal/mail"
	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/types"
)

// Outcome errors. Message maps each to the text shown to the user.
var (
	ErrMissingCredentials = errors.New("missing email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRequired      = errors.New("email required")
	ErrUnknownEmail       = errors.New("no account for email")
	ErrFieldsRequired     = errors.New("reset fields required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNoResetRequest     = errors.New("no reset request")
	ErrResetExpired       = errors.New("reset code expired")
	ErrInvalidCode        = errors.New("invalid reset code")
	ErrAccountNotFound    = errors.New("account not found")
)

// Success messages.
const (
	MsgRegistered      = "Registered successfully! Please log in."
	MsgPasswordUpdated = "Password updated. You can now log in."
	msgUnexpected      = "Something went wrong. Please try again."
)

var messages = map[error]string{
	ErrMissingCredentials: "Please enter both email and password.",
	ErrUserExists:         "User already exists!",
	ErrInvalidCredentials: "Invalid credentials!",
	ErrEmailRequired:      "Please enter your email.",
	ErrUnknownEmail:       "No account found with that email.",
	ErrFieldsRequired:     "Please fill all fields.",
	ErrPasswordMismatch:   "Passwords do not match.",
	ErrNoResetRequest:     "No reset request found for this email. Please generate a code first.",
	ErrResetExpired:       "Reset code expired. Please generate a new code.",
	ErrInvalidCode:        "Invalid code.",
	ErrAccountNotFound:    "Account not found.",
}

// Message returns the user-facing text for an error returned by Service.
// Errors that are not outcomes get a generic message.
func Message(err error) string {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return msgUnexpected
}

// IsOutcome reports whether err is an expected result of user input, as
// opposed to an internal failure worth logging.
func IsOutcome(err error) bool {
	for sentinel := range messages {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// DefaultCodeTTL is how long a reset code stays valid.
const DefaultCodeTTL = 15 * time.Minute

// Service runs the account flows.
type Service struct {
	users   store.UserStore
	resets  store.ResetTokenStore
	mailer  mail.Sender
	logger  *slog.Logger
	codeTTL time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithCodeTTL overrides DefaultCodeTTL.
func WithCodeTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.codeTTL = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the account flows to their stores and mail sender.
func NewService(users store.UserStore, resets store.ResetTokenStore, mailer mail.Sender, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		users:   users,
		resets:  resets,
		mailer:  mailer,
		logger:  logger.With("component", "account"),
		codeTTL: DefaultCodeTTL,
		now:     time.Now,
		newCode: generateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, email, password string) (*types.User, error) {
	email, password = normalize(email), strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials. Unknown email and wrong password are not
// distinguished.
func (s *Service) Login(ctx context.Context, email, password string) (*types.User, error) {
	email, password = normalize(email), strings.TrimSpace(password)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// RequestReset issues a new reset code for email, replacing any pending
// one, and hands it to the mail sender. The code is returned so callers
// running without real email can show it.
func (s *Service) RequestReset(ctx context.Context, email string) (string, error) {
	email = normalize(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownEmail
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}

	if err := s.resets.SaveResetCode(ctx, email, code, s.now().Add(s.codeTTL)); err != nil {
		return "", fmt.Errorf("save reset code: %w", err)
	}

	if err := s.mailer.SendResetCode(ctx, email, code, s.codeTTL); err != nil {
		return "", fmt.Errorf("send reset code: %w", err)
	}

	return code, nil
}

// ResetIssuedMessage is the text shown once a reset code has been issued.
func (s *Service) ResetIssuedMessage() string {
	return fmt.Sprintf("Reset code generated. Use it within %s.", mail.Validity(s.codeTTL))
}

// ResetPassword sets a new password when code matches the pending reset
// for email. Checks run in a fixed order so the first failing one decides
// the outcome.
func (s *Service) ResetPassword(ctx context.Context, email, code, password, confirm string) error {
	email = normalize(email)
	code = strings.TrimSpace(code)
	password = strings.TrimSpace(password)
	confirm = strings.TrimSpace(confirm)

	if email == "" || code == "" || password == "" || confirm == "" {
		return ErrFieldsRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	saved, err := s.resets.GetResetCode(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoResetRequest
		}
		return fmt.Errorf("get reset code: %w", err)
	}

	if saved.Expired(s.now()) {
		if err := s.resets.DeleteResetCode(ctx, email); err != nil {
			return fmt.Errorf("delete reset code: %w", err)
		}
		return ErrResetExpired
	}
	if code != saved.Code {
		return ErrInvalidCode
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.resets.DeleteResetCode(ctx, email); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}

	s.logger.Info("password reset", "email", email)
	return nil
}

// generateCode returns a uniformly random zero-padded 6 digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
