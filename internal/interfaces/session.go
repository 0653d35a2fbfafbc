package interfaces

import "context"

// GuestKey scopes the ledgers of unauthenticated callers
const GuestKey = "guest"

// Session identifies the caller of a gateway request. Token is forwarded
// to the remote API as a bearer token.
type Session struct {
	UserKey   string
	Token     string
	RequestID string
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the request session, falling back to the guest key
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	if s.UserKey == "" {
		s.UserKey = GuestKey
	}
	return s
}
