package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/nikkinicholasromero/chat-service"
)

type configStub struct{}

func (configStub) GetSigningKey() string   { return "test-signing-key" }
func (configStub) GetIssuer() string       { return "chat-service" }
func (configStub) GetTokenExpiration() int { return 1800 }
func (configStub) GetAuthScheme() string   { return "Bearer" }
func (configStub) GetContextKey() string   { return "session" }
func (configStub) GetTokenLookup() string  { return "header:" + router.HeaderAuthorization }

func TestRotate(t *testing.T) {
	tokens := newTokenService()

	t.Run("keeps the session id and refreshes the token id", func(t *testing.T) {
		raw, err := tokens.Issue("nikki@gmail.com", "session-1")
		require.NoError(t, err)

		rotation, err := auth.Rotate(tokens, raw)
		require.NoError(t, err)
		assert.Equal(t, "nikki@gmail.com", rotation.Email)
		assert.Equal(t, "session-1", rotation.SessionID)
		require.NotEmpty(t, rotation.Token)
		assert.NotEqual(t, raw, rotation.Token)

		before, err := tokens.Verify(raw)
		require.NoError(t, err)
		after, err := tokens.Verify(rotation.Token)
		require.NoError(t, err)
		assert.Equal(t, before.SessionID, after.SessionID)
		assert.NotEqual(t, before.TokenID, after.TokenID)
	})

	t.Run("rotation extends the expiry window", func(t *testing.T) {
		past := auth.NewTokenService([]byte("test-signing-key"), 1800, "chat-service", nil).
			WithClock(func() time.Time { return time.Now().Add(-10 * time.Minute) })

		raw, err := past.Issue("nikki@gmail.com", "session-1")
		require.NoError(t, err)

		rotation, err := auth.Rotate(newTokenService(), raw)
		require.NoError(t, err)

		before, err := newTokenService().Verify(raw)
		require.NoError(t, err)
		after, err := newTokenService().Verify(rotation.Token)
		require.NoError(t, err)
		assert.True(t, after.ExpiresAt.After(before.ExpiresAt))
	})

	t.Run("collapses verification failures", func(t *testing.T) {
		_, err := auth.Rotate(tokens, "garbage")
		assert.ErrorIs(t, err, auth.ErrSessionInvalid)
	})
}

func TestSessionMiddleware(t *testing.T) {
	tokens := newTokenService()

	errorHandler := func(handled *error) router.ErrorHandler {
		return func(ctx router.Context, err error) error {
			*handled = err
			return err
		}
	}

	newHandler := func(handled *error) router.HandlerFunc {
		mw := auth.SessionMiddleware(tokens, configStub{}, errorHandler(handled))
		return mw(func(ctx router.Context) error { return ctx.Next() })
	}

	t.Run("rotates the token and attaches the principal", func(t *testing.T) {
		raw, err := tokens.Issue("nikki@gmail.com", "session-1")
		require.NoError(t, err)

		var handled error
		handler := newHandler(&handled)

		var header string
		var enriched context.Context

		ctx := router.NewMockContext()
		ctx.On("Path").Return("/user/profile")
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer " + raw)
		ctx.On("Locals", "session", mock.Anything).Return(nil)
		ctx.On("SetHeader", router.HeaderAuthorization, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
			header = args.String(1)
		}).Return(ctx)
		ctx.On("Context").Return(context.Background())
		ctx.On("SetContext", mock.Anything).Run(func(args mock.Arguments) {
			enriched = args.Get(0).(context.Context)
		}).Return(nil)

		err = handler(ctx)
		require.NoError(t, err)
		require.NoError(t, handled)
		assert.True(t, ctx.NextCalled)

		require.NotEmpty(t, header)
		assert.Contains(t, header, "Bearer ")
		rotated := header[len("Bearer "):]
		assert.NotEqual(t, raw, rotated)

		session, err := tokens.Verify(rotated)
		require.NoError(t, err)
		assert.Equal(t, "session-1", session.SessionID)
		assert.Equal(t, "nikki@gmail.com", session.Email)

		require.NotNil(t, enriched)
		principal, ok := auth.PrincipalFromContext(enriched)
		require.True(t, ok)
		assert.Equal(t, "nikki@gmail.com", principal.Email)
		assert.Equal(t, "session-1", principal.SessionID)
		assert.Equal(t, rotated, principal.Token)

		correlation := auth.CorrelationFromContext(enriched)
		assert.Equal(t, "nikki@gmail.com", correlation.User)
		assert.Equal(t, "session-1", correlation.Session)
	})

	t.Run("anonymous requests pass through untouched", func(t *testing.T) {
		var handled error
		handler := newHandler(&handled)

		ctx := router.NewMockContext()
		ctx.On("Path").Return("/user")
		ctx.On("GetString", router.HeaderAuthorization, "").Return("")

		err := handler(ctx)
		require.NoError(t, err)
		require.NoError(t, handled)
		assert.True(t, ctx.NextCalled)
	})

	t.Run("token routes are exempt", func(t *testing.T) {
		var handled error
		handler := newHandler(&handled)

		ctx := router.NewMockContext()
		ctx.On("Path").Return("/token/google")

		err := handler(ctx)
		require.NoError(t, err)
		assert.True(t, ctx.NextCalled)
	})

	t.Run("invalid tokens reach the error handler", func(t *testing.T) {
		var handled error
		handler := newHandler(&handled)

		ctx := router.NewMockContext()
		ctx.On("Path").Return("/user/profile")
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer garbage")

		err := handler(ctx)
		assert.Error(t, err)
		assert.ErrorIs(t, handled, auth.ErrSessionInvalid)
		assert.False(t, ctx.NextCalled)
	})
}
