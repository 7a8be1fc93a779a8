package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/nikkinicholasromero/chat-service"
)

func TestHTTPControllerGetEmailStatus(t *testing.T) {
	manager, _, sender := newManager()
	register(t, manager, "nikki@gmail.com")
	confirm(t, manager, sender, "nikki@gmail.com")

	controller := auth.NewHTTPController(manager, nil)

	t.Run("reports the state of a confirmed email", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.QueriesM["email"] = "nikki@gmail.com"
		ctx.On("Context").Return(context.Background())

		var payload auth.EmailStatusResponse
		ctx.On("JSON", router.StatusOK, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(auth.EmailStatusResponse)
		}).Return(nil)

		require.NoError(t, controller.GetEmailStatus(ctx))
		assert.Equal(t, auth.EmailStatusConfirmed, payload.Status)
	})

	t.Run("reports unregistered for unknown emails", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.QueriesM["email"] = "nobody@gmail.com"
		ctx.On("Context").Return(context.Background())

		var payload auth.EmailStatusResponse
		ctx.On("JSON", router.StatusOK, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(auth.EmailStatusResponse)
		}).Return(nil)

		require.NoError(t, controller.GetEmailStatus(ctx))
		assert.Equal(t, auth.EmailStatusUnregistered, payload.Status)
	})
}

func TestHTTPControllerSendConfirmationCode(t *testing.T) {
	t.Run("lifecycle errors reach the error handler", func(t *testing.T) {
		manager, _, _ := newManager()

		var handled error
		controller := auth.NewHTTPController(manager, nil).
			WithErrorHandler(func(ctx router.Context, err error) error {
				handled = err
				return nil
			})

		ctx := router.NewMockContext()
		ctx.ParamsM["email"] = "nobody@gmail.com"
		ctx.On("Context").Return(context.Background())

		require.NoError(t, controller.SendConfirmationCode(ctx))
		assert.ErrorIs(t, handled, auth.ErrEmailUnregistered)
	})
}

func TestHTTPControllerGetProfile(t *testing.T) {
	manager, _, sender := newManager()
	register(t, manager, "nikki@gmail.com")
	confirm(t, manager, sender, "nikki@gmail.com")

	controller := auth.NewHTTPController(manager, nil)

	t.Run("returns the principal's profile", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("Context").Return(authedContext("nikki@gmail.com"))

		var payload *auth.ProfileView
		ctx.On("JSON", router.StatusOK, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(*auth.ProfileView)
		}).Return(nil)

		require.NoError(t, controller.GetProfile(ctx))
		require.NotNil(t, payload)
		assert.Equal(t, "Nikki", payload.FirstName)
		assert.False(t, payload.Social)
	})

	t.Run("anonymous requests surface the session error", func(t *testing.T) {
		var handled error
		anonymous := auth.NewHTTPController(manager, nil).
			WithErrorHandler(func(ctx router.Context, err error) error {
				handled = err
				return nil
			})

		ctx := router.NewMockContext()
		ctx.On("Context").Return(context.Background())

		require.NoError(t, anonymous.GetProfile(ctx))
		assert.True(t, auth.IsSessionInvalidError(handled))
	})
}

func TestDefaultErrorHandler(t *testing.T) {
	t.Run("maps structured errors to the envelope", func(t *testing.T) {
		ctx := router.NewMockContext()

		var payload auth.ErrorResponse
		ctx.On("JSON", router.StatusBadRequest, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(auth.ErrorResponse)
		}).Return(nil)

		require.NoError(t, auth.DefaultErrorHandler(ctx, auth.ErrEmailUnregistered))
		assert.Equal(t, auth.TextCodeEmailUnregistered, payload.Code)
		assert.Equal(t, "email is not registered", payload.Message)
	})

	t.Run("unknown errors become opaque 500s", func(t *testing.T) {
		ctx := router.NewMockContext()

		var payload auth.ErrorResponse
		ctx.On("JSON", router.StatusInternalServerError, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(auth.ErrorResponse)
		}).Return(nil)

		require.NoError(t, auth.DefaultErrorHandler(ctx, errors.New("database exploded")))
		assert.NotContains(t, payload.Message, "database exploded")
	})
}

func TestRequestValidation(t *testing.T) {
	t.Run("registration", func(t *testing.T) {
		valid := auth.RegistrationRequest{Email: "nikki@gmail.com", Password: "password123"}
		assert.NoError(t, valid.Validate())

		assert.Error(t, auth.RegistrationRequest{Email: "not-an-email", Password: "password123"}.Validate())
		assert.Error(t, auth.RegistrationRequest{Email: "nikki@gmail.com", Password: "short"}.Validate())
		assert.Error(t, auth.RegistrationRequest{Password: "password123"}.Validate())
	})

	t.Run("password update allows a blank current password", func(t *testing.T) {
		assert.NoError(t, auth.UpdatePasswordRequest{NewPassword: "password123"}.Validate())
		assert.Error(t, auth.UpdatePasswordRequest{NewPassword: "short"}.Validate())
	})

	t.Run("password reset", func(t *testing.T) {
		valid := auth.PasswordResetRequest{
			Email:             "nikki@gmail.com",
			PasswordResetCode: "code",
			NewPassword:       "password123",
		}
		assert.NoError(t, valid.Validate())

		missingCode := valid
		missingCode.PasswordResetCode = ""
		assert.Error(t, missingCode.Validate())
	})

	t.Run("social token", func(t *testing.T) {
		assert.NoError(t, auth.SocialTokenRequest{Code: "auth-code"}.Validate())
		assert.Error(t, auth.SocialTokenRequest{}.Validate())
	})
}
