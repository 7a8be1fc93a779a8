package auth

import (
	"time"
)

// Session is the verified content of a sliding-session token. It is
// transient: nothing here is ever persisted server-side, so expiry is the
// only invalidation mechanism.
type Session struct {
	Email     string
	SessionID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the request-scoped authenticated identity attached by the
// sliding-session filter. Token carries the rotated token issued for the
// client's next request.
type Principal struct {
	Email     string
	SessionID string
	Token     string
}
