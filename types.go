package auth

import (
	"context"
	"fmt"
)

// Logger interface used across the package. Callers can plug their own;
// everything defaults to defLogger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AccountStore is the contract over the external account store. FindByEmail
// takes a normalized email and returns nil when no account exists. Save of
// an account with a previously unseen ID is a create; a known ID updates all
// mutable fields.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Save(ctx context.Context, account *Account) (*Account, error)
}

// TokenService mints and verifies sliding-session tokens.
type TokenService interface {
	Issue(subjectEmail, sessionID string) (string, error)
	Verify(raw string) (*Session, error)
}

// Config holds the token and transport options.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetTokenExpiration() int // seconds
	GetAuthScheme() string
	GetContextKey() string
	GetTokenLookup() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
