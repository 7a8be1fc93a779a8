package auth

import "context"

var principalCtxKey = &contextKey{"principal"}
var correlationCtxKey = &contextKey{"correlation"}

type contextKey struct {
	name string
}

// Correlation is the request-scoped log correlation data propagated by the
// sliding-session filter. It is carried in the request context, never in
// package state, so it cannot leak across concurrent requests.
type Correlation struct {
	User    string
	Session string
}

// WithPrincipal sets the authenticated Principal in the given context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the authenticated principal, if any. Anonymous
// requests carry none.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

// WithCorrelation sets the log correlation data in the given context.
func WithCorrelation(ctx context.Context, correlation Correlation) context.Context {
	return context.WithValue(ctx, correlationCtxKey, correlation)
}

// CorrelationFromContext returns the correlation data, zero valued when the
// request is anonymous.
func CorrelationFromContext(ctx context.Context) Correlation {
	correlation, _ := ctx.Value(correlationCtxKey).(Correlation)
	return correlation
}
