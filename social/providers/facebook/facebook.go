// Package facebook resolves Facebook OAuth authorization codes into verified
// profiles via the Graph API.
package facebook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nikkinicholasromero/chat-service/social"
)

const (
	defaultTokenURL   = "https://graph.facebook.com/v18.0/oauth/access_token"
	defaultProfileURL = "https://graph.facebook.com/me"
	defaultFields     = "email,first_name,last_name"
)

// Config holds Facebook OAuth configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	TokenURL   string
	ProfileURL string
	Fields     string

	HTTPClient *http.Client
}

// Provider implements social.Provider for Facebook.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Facebook provider.
func New(cfg Config) *Provider {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = defaultProfileURL
	}
	if cfg.Fields == "" {
		cfg.Fields = defaultFields
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Name implements social.Provider.
func (p *Provider) Name() string {
	return "facebook"
}

// Profile implements social.Provider. It trades the authorization code for an
// access token, then fetches the profile fields from the Graph API.
func (p *Provider) Profile(ctx context.Context, code string) (*social.Profile, error) {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURI},
		"code":          {code},
	}

	var tokenResp facebookTokenResponse
	if err := p.getJSON(ctx, "exchange", p.config.TokenURL+"?"+params.Encode(), &tokenResp); err != nil {
		return nil, err
	}
	if tokenResp.AccessToken == "" {
		return nil, providerError("exchange", 0, "missing access token", nil)
	}

	profileParams := url.Values{
		"fields":       {p.config.Fields},
		"access_token": {tokenResp.AccessToken},
	}

	var profileResp facebookProfileResponse
	if err := p.getJSON(ctx, "profile", p.config.ProfileURL+"?"+profileParams.Encode(), &profileResp); err != nil {
		return nil, err
	}
	if profileResp.Email == "" {
		return nil, providerError("profile", 0, "profile carries no email", nil)
	}

	return &social.Profile{
		Email:     profileResp.Email,
		FirstName: profileResp.FirstName,
		LastName:  profileResp.LastName,
	}, nil
}

func (p *Provider) getJSON(ctx context.Context, operation, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return providerError(operation, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providerError(operation, resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return providerError(operation, resp.StatusCode, "graph api returned an error", nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return providerError(operation, resp.StatusCode, "failed to decode response", err)
	}

	return nil
}

type facebookTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type facebookProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func providerError(operation string, status int, description string, err error) error {
	return social.NewProviderError("facebook", operation, status, description, err)
}

var _ social.Provider = (*Provider)(nil)
