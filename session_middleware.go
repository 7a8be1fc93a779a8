package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"

	"github.com/nikkinicholasromero/chat-service/middleware/sessionware"
)

// tokenPathPrefix is exempt from the sliding-session filter: these routes
// issue tokens, they never consume them.
const tokenPathPrefix = "/token"

// Rotate verifies the incoming token and mints its replacement for the same
// session. The replacement keeps the session id; everything else, token id
// included, is fresh.
func Rotate(tokens TokenService, raw string) (*sessionware.Rotation, error) {
	session, err := tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	next, err := tokens.Issue(session.Email, session.SessionID)
	if err != nil {
		return nil, err
	}

	return &sessionware.Rotation{
		Email:     session.Email,
		SessionID: session.SessionID,
		Token:     next,
	}, nil
}

// SessionMiddleware builds the sliding-session middleware over the token
// service. Verified requests carry a Principal and log correlation data in
// their context; the rotated token is written to the response Authorization
// header before the handler runs.
func SessionMiddleware(tokens TokenService, cfg Config, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	return sessionware.New(sessionware.Config{
		Filter: func(ctx router.Context) bool {
			return strings.HasPrefix(ctx.Path(), tokenPathPrefix)
		},
		Rotate: func(raw string) (*sessionware.Rotation, error) {
			return Rotate(tokens, raw)
		},
		ErrorHandler: errorHandler,
		ContextKey:   cfg.GetContextKey(),
		TokenLookup:  cfg.GetTokenLookup(),
		AuthScheme:   cfg.GetAuthScheme(),
		ContextEnricher: func(ctx context.Context, rotation *sessionware.Rotation) context.Context {
			ctx = WithPrincipal(ctx, &Principal{
				Email:     rotation.Email,
				SessionID: rotation.SessionID,
				Token:     rotation.Token,
			})
			return WithCorrelation(ctx, Correlation{
				User:    rotation.Email,
				Session: rotation.SessionID,
			})
		},
	})
}
