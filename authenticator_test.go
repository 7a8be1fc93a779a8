package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/nikkinicholasromero/chat-service"
	"github.com/nikkinicholasromero/chat-service/social"
)

type stubProvider struct {
	name    string
	profile *social.Profile
	err     error

	lastCode string
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) Profile(_ context.Context, code string) (*social.Profile, error) {
	p.lastCode = code
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

func TestAuther_Login(t *testing.T) {
	tokens := newTokenService()

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		manager, _, sender := newManager()
		register(t, manager, "nikki@gmail.com")
		confirm(t, manager, sender, "nikki@gmail.com")

		auther := auth.NewAuthenticator(manager, tokens)

		raw, err := auther.Login(context.Background(), "nikki@gmail.com", "password123")
		require.NoError(t, err)

		session, err := tokens.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, "nikki@gmail.com", session.Email)
		assert.NotEmpty(t, session.SessionID)
	})

	t.Run("every login starts a fresh session", func(t *testing.T) {
		manager, _, sender := newManager()
		register(t, manager, "nikki@gmail.com")
		confirm(t, manager, sender, "nikki@gmail.com")

		auther := auth.NewAuthenticator(manager, tokens)

		first, err := auther.Login(context.Background(), "nikki@gmail.com", "password123")
		require.NoError(t, err)
		second, err := auther.Login(context.Background(), "nikki@gmail.com", "password123")
		require.NoError(t, err)

		firstSession, err := tokens.Verify(first)
		require.NoError(t, err)
		secondSession, err := tokens.Verify(second)
		require.NoError(t, err)
		assert.NotEqual(t, firstSession.SessionID, secondSession.SessionID)
	})

	t.Run("propagates credential failures", func(t *testing.T) {
		manager, _, sender := newManager()
		register(t, manager, "nikki@gmail.com")
		confirm(t, manager, sender, "nikki@gmail.com")

		auther := auth.NewAuthenticator(manager, tokens)

		_, err := auther.Login(context.Background(), "nikki@gmail.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrIncorrectCredentials)
	})
}

func TestAuther_SocialLogin(t *testing.T) {
	tokens := newTokenService()

	t.Run("rejects unknown providers", func(t *testing.T) {
		manager, _, _ := newManager()
		auther := auth.NewAuthenticator(manager, tokens)

		_, err := auther.SocialLogin(context.Background(), "myspace", "code")
		assert.Error(t, err)
	})

	t.Run("registers the profile and issues a token", func(t *testing.T) {
		manager, store, _ := newManager()
		provider := &stubProvider{
			name:    "google",
			profile: &social.Profile{Email: "nikki@gmail.com", FirstName: "Nikki", LastName: "Romero"},
		}
		auther := auth.NewAuthenticator(manager, tokens).WithProvider(provider)

		raw, err := auther.SocialLogin(context.Background(), "google", "auth-code")
		require.NoError(t, err)
		assert.Equal(t, "auth-code", provider.lastCode)

		session, err := tokens.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, "nikki@gmail.com", session.Email)

		account, err := store.FindByEmail(context.Background(), "nikki@gmail.com")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.True(t, account.Confirmed)
	})

	t.Run("provider failures surface as auth errors", func(t *testing.T) {
		manager, store, _ := newManager()
		provider := &stubProvider{
			name: "google",
			err:  errors.New("exchange rejected"),
		}
		auther := auth.NewAuthenticator(manager, tokens).WithProvider(provider)

		_, err := auther.SocialLogin(context.Background(), "google", "bad-code")
		assert.Error(t, err)
		assert.Equal(t, 0, store.count())
	})
}
