// Package social defines the contract between the login flow and the OAuth
// providers that vouch for a user's identity. Providers hand back a Profile
// whose email is already verified on the provider's side; the account
// lifecycle treats it as trusted.
package social

import "context"

// Profile is the normalized identity a provider resolves from an
// authorization code.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
}

// Provider resolves an OAuth authorization code into a verified profile.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "facebook").
	Name() string

	// Profile trades the authorization code for the user's profile.
	Profile(ctx context.Context, code string) (*Profile, error)
}
