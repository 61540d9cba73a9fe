package web

import "context"

// sessionContextKey is the context key for the loaded session.
type sessionContextKey struct{}

// WithSession returns a new context with the session attached.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext extracts the session from the context.
// Returns false when the request is not logged in.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}
