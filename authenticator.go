package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/nikkinicholasromero/chat-service/social"
)

// Auther orchestrates login: credential or social identity verification
// followed by session token issuance. Every successful login starts a new
// session id; the id then survives token rotation for the session's life.
type Auther struct {
	accounts  *AccountManager
	tokens    TokenService
	providers map[string]social.Provider
	logger    Logger
}

// NewAuthenticator returns a new Auther.
func NewAuthenticator(accounts *AccountManager, tokens TokenService) *Auther {
	return &Auther{
		accounts:  accounts,
		tokens:    tokens,
		providers: map[string]social.Provider{},
		logger:    defLogger{},
	}
}

// WithLogger sets the logger.
func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithProvider registers a social provider under its own name.
func (s *Auther) WithProvider(provider social.Provider) *Auther {
	s.providers[provider.Name()] = provider
	return s
}

// Login verifies the email and password pair and issues a token for a fresh
// session.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	if err := s.accounts.ValidateCredentials(ctx, email, password); err != nil {
		s.logger.Debug("login rejected for %s: %v", NormalizeEmail(email), err)
		return "", err
	}

	return s.tokens.Issue(email, uuid.NewString())
}

// SocialLogin resolves the authorization code through the named provider,
// reconciles the verified profile with the account state, and issues a token
// for a fresh session.
func (s *Auther) SocialLogin(ctx context.Context, providerName, code string) (string, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", goerrors.New("unknown social provider", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"provider": providerName})
	}

	profile, err := provider.Profile(ctx, code)
	if err != nil {
		s.logger.Error("social login via %s failed: %v", providerName, err)
		return "", goerrors.Wrap(err, goerrors.CategoryAuth, "failed to verify social identity").
			WithCode(goerrors.CodeUnauthorized)
	}

	if err := s.accounts.RegisterSocialUser(ctx, profile); err != nil {
		return "", err
	}

	return s.tokens.Issue(profile.Email, uuid.NewString())
}
