package auth

import (
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EmailStatus is the derived registration state of an email address. It is
// never persisted; it is always computed from the account fields so stored
// state cannot disagree with the fields that imply it.
type EmailStatus string

const (
	// EmailStatusUnregistered means no account exists for the email.
	EmailStatusUnregistered EmailStatus = "UNREGISTERED"
	// EmailStatusUnconfirmed means an account exists but the address has not
	// been confirmed yet.
	EmailStatusUnconfirmed EmailStatus = "UNCONFIRMED"
	// EmailStatusConfirmed means the account's address has been confirmed.
	EmailStatusConfirmed EmailStatus = "CONFIRMED"
)

// Account is the aggregate root for a chat user's identity. Identity is the
// opaque ID; uniqueness is also enforced on the normalized email. Salt and
// PasswordHash are both set or both empty: an account without them is
// social-only until it sets a local password.
type Account struct {
	bun.BaseModel `bun:"table:user_profiles,alias:acc"`

	ID                uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email             string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Salt              string    `bun:"salt" json:"-"`
	PasswordHash      string    `bun:"hash" json:"-"`
	ConfirmationCode  string    `bun:"confirmation_code" json:"-"`
	Confirmed         bool      `bun:"confirmed,notnull" json:"confirmed"`
	PasswordResetCode string    `bun:"password_reset_code" json:"-"`
	FirstName         string    `bun:"first_name" json:"first_name,omitempty"`
	LastName          string    `bun:"last_name" json:"last_name,omitempty"`
}

// RegularAccount creates an unconfirmed account with local credentials and a
// pending confirmation code.
func RegularAccount(id uuid.UUID, email, salt, hash, confirmationCode, firstName, lastName string) *Account {
	return &Account{
		ID:               id,
		Email:            NormalizeEmail(email),
		Salt:             salt,
		PasswordHash:     hash,
		ConfirmationCode: confirmationCode,
		Confirmed:        false,
		FirstName:        strings.TrimSpace(firstName),
		LastName:         strings.TrimSpace(lastName),
	}
}

// SocialAccount creates an account for an externally verified identity. It
// is confirmed from the start and carries no local credentials.
func SocialAccount(id uuid.UUID, email, firstName, lastName string) *Account {
	return &Account{
		ID:        id,
		Email:     NormalizeEmail(email),
		Confirmed: true,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
}

// Status projects the derived email status from the account fields. A nil
// account is unregistered.
func (a *Account) Status() EmailStatus {
	if a == nil {
		return EmailStatusUnregistered
	}
	if a.Confirmed {
		return EmailStatusConfirmed
	}
	return EmailStatusUnconfirmed
}

// HasPassword reports whether the account holds local credentials.
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != ""
}

// ConfirmRegistration marks the address as confirmed and clears the pending
// confirmation code. Confirmation never reverts.
func (a *Account) ConfirmRegistration() {
	a.ConfirmationCode = ""
	a.Confirmed = true
}

// SetPasswordResetCode stores a pending reset code. The code lives only
// until the reset is consumed.
func (a *Account) SetPasswordResetCode(code string) {
	a.PasswordResetCode = code
}

// UpdatePassword installs new local credentials and clears any pending reset
// code, whichever path issued it.
func (a *Account) UpdatePassword(salt, hash string) {
	a.Salt = salt
	a.PasswordHash = hash
	a.PasswordResetCode = ""
}

// UpdateProfile replaces the name fields, trimming whitespace.
func (a *Account) UpdateProfile(firstName, lastName string) {
	a.FirstName = strings.TrimSpace(firstName)
	a.LastName = strings.TrimSpace(lastName)
}

// FullName joins the trimmed name fields for mail salutations.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail trims and lower-cases an address. Every lookup and every
// stored email goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
