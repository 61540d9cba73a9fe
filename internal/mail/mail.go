// Package mail delivers password-reset codes.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sender delivers a reset code, valid for ttl, to an account email.
type Sender interface {
	SendResetCode(ctx context.Context, to, code string, ttl time.Duration) error
}

const resetSubject = "Password Reset Code"

func resetBody(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your password reset code is: %s\n\nIt is valid for %s. If you did not request a reset, ignore this email.", code, Validity(ttl))
}

// Validity spells out a code lifetime in the largest whole unit, e.g.
// "15 minutes" or "1 hour".
func Validity(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	default:
		return plural(int64(d.Round(time.Second)/time.Second), "second")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// LogSender writes reset codes to the log instead of sending email. Used in
// development and demo deployments.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a Sender that logs through logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With("component", "mail")}
}

// SendResetCode logs the code at info level.
func (s *LogSender) SendResetCode(ctx context.Context, to, code string, ttl time.Duration) error {
	s.logger.InfoContext(ctx, "reset code issued",
		"to", to,
		"code", code,
		"valid_for", Validity(ttl),
	)
	return nil
}
