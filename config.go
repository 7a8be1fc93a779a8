package auth

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig is the environment-driven configuration. It satisfies Config for
// the token and session middleware wiring.
type AppConfig struct {
	Address     string `env:"CHAT_HTTP_ADDRESS" envDefault:":8080"`
	DatabaseDSN string `env:"CHAT_DATABASE_DSN" envDefault:"file:chat.db?cache=shared"`

	SigningKey      string `env:"CHAT_JWT_SIGNING_KEY,notEmpty"`
	Issuer          string `env:"CHAT_JWT_ISSUER" envDefault:"chat-service"`
	TokenExpiration int    `env:"CHAT_JWT_EXPIRATION_SECONDS" envDefault:"1800"`
	AuthScheme      string `env:"CHAT_AUTH_SCHEME" envDefault:"Bearer"`
	ContextKey      string `env:"CHAT_AUTH_CONTEXT_KEY" envDefault:"session"`
	TokenLookup     string `env:"CHAT_AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization"`

	MailEnabled          bool   `env:"CHAT_MAIL_ENABLED" envDefault:"false"`
	PostmarkServerToken  string `env:"CHAT_POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"CHAT_POSTMARK_ACCOUNT_TOKEN"`
	MailFromAddress      string `env:"CHAT_MAIL_FROM_ADDRESS"`
	MailSupportAddress   string `env:"CHAT_MAIL_SUPPORT_ADDRESS"`
	PortalURL            string `env:"CHAT_PORTAL_URL" envDefault:"http://localhost:3000"`

	GoogleClientID        string `env:"CHAT_GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string `env:"CHAT_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI     string `env:"CHAT_GOOGLE_REDIRECT_URI"`
	FacebookClientID      string `env:"CHAT_FACEBOOK_CLIENT_ID"`
	FacebookClientSecret  string `env:"CHAT_FACEBOOK_CLIENT_SECRET"`
	FacebookRedirectURI   string `env:"CHAT_FACEBOOK_REDIRECT_URI"`
	MicrosoftClientID     string `env:"CHAT_MICROSOFT_CLIENT_ID"`
	MicrosoftClientSecret string `env:"CHAT_MICROSOFT_CLIENT_SECRET"`
	MicrosoftRedirectURI  string `env:"CHAT_MICROSOFT_REDIRECT_URI"`
}

// LoadConfig reads .env when present, then parses the environment.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AppConfig) GetIssuer() string {
	return c.Issuer
}

func (c *AppConfig) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *AppConfig) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *AppConfig) GetContextKey() string {
	return c.ContextKey
}

func (c *AppConfig) GetTokenLookup() string {
	return c.TokenLookup
}

var _ Config = (*AppConfig)(nil)
