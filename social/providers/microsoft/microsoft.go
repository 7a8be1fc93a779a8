// Package microsoft resolves Microsoft OAuth authorization codes into
// verified profiles via the Graph API.
package microsoft

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikkinicholasromero/chat-service/social"
)

const (
	defaultTokenURL   = "https://login.microsoftonline.com/common/oauth2/v2.0/token"
	defaultProfileURL = "https://graph.microsoft.com/v1.0/me"
)

// Config holds Microsoft OAuth configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	TokenURL   string
	ProfileURL string

	HTTPClient *http.Client
}

// Provider implements social.Provider for Microsoft.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Microsoft provider.
func New(cfg Config) *Provider {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = defaultProfileURL
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
	return "microsoft"
}

// Profile implements social.Provider. It trades the authorization code for an
// access token, then reads the signed-in user from the Graph API.
func (p *Provider) Profile(ctx context.Context, code string) (*social.Profile, error) {
	data := url.Values{
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURI},
		"grant_type":    {"authorization_code"},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, providerError("exchange", 0, "token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerError("exchange", resp.StatusCode, "failed to read token response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providerError("exchange", resp.StatusCode, "token endpoint rejected the code", nil)
	}

	var tokenResp microsoftTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, providerError("exchange", resp.StatusCode, "failed to decode token response", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, providerError("exchange", resp.StatusCode, "missing access token", nil)
	}

	return p.fetchProfile(ctx, tokenResp.AccessToken)
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.ProfileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, providerError("profile", 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerError("profile", resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providerError("profile", resp.StatusCode, "graph api returned an error", nil)
	}

	var profileResp microsoftProfileResponse
	if err := json.Unmarshal(body, &profileResp); err != nil {
		return nil, providerError("profile", resp.StatusCode, "failed to decode response", err)
	}
	if profileResp.Mail == "" {
		return nil, providerError("profile", resp.StatusCode, "profile carries no email", nil)
	}

	return &social.Profile{
		Email:     profileResp.Mail,
		FirstName: profileResp.GivenName,
		LastName:  profileResp.Surname,
	}, nil
}

type microsoftTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type microsoftProfileResponse struct {
	ID        string `json:"id"`
	Mail      string `json:"mail"`
	GivenName string `json:"givenName"`
	Surname   string `json:"surname"`
}

func providerError(operation string, status int, description string, err error) error {
	return social.NewProviderError("microsoft", operation, status, description, err)
}

var _ social.Provider = (*Provider)(nil)
