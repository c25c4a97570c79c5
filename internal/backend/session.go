package backend

import (
	"context"
	"net/http"
)

// RequestIDHeader carries the dashboard request id to the backend.
const RequestIDHeader = "X-Request-ID"

// Session is the caller identity forwarded to the backend: the cookies of the
// incoming dashboard request and its request id.
type Session struct {
	Cookies   []*http.Cookie
	RequestID string
}

func (s Session) cookies(name string) []*http.Cookie {
	if name == "" {
		return s.Cookies
	}
	for _, c := range s.Cookies {
		if c.Name == name {
			return []*http.Cookie{c}
		}
	}
	return nil
}

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
