package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"

	"github.com/nikkinicholasromero/chat-service/mail"
	"github.com/nikkinicholasromero/chat-service/social"
)

// Registration is the input for creating an account. Social registrations
// carry no password and are confirmed from the start; they are only reachable
// through the social login reconciliation, never straight from a client.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Social    bool
}

// Confirmation is the input for confirming a registered address. The social
// path confirms unconditionally since the provider already verified the
// address; the regular path requires the emailed code.
type Confirmation struct {
	Email            string
	ConfirmationCode string
	Social           bool
}

// PasswordReset completes the forgot-password flow with the emailed code.
type PasswordReset struct {
	Email             string
	PasswordResetCode string
	NewPassword       string
}

// ProfileView is the account projection returned to an authenticated client.
// Social reports whether the account still has no local password.
type ProfileView struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Social    bool   `json:"social"`
}

// AccountManager drives the account lifecycle: registration, confirmation,
// password management, and the profile of the authenticated principal.
// Outbound mail is best effort; a delivery failure is logged and never fails
// the lifecycle operation that triggered it.
type AccountManager struct {
	store  AccountStore
	hasher Hasher
	mailer mail.Sender
	logger Logger
}

// NewAccountManager creates an AccountManager.
func NewAccountManager(store AccountStore, hasher Hasher, mailer mail.Sender) *AccountManager {
	return &AccountManager{
		store:  store,
		hasher: hasher,
		mailer: mailer,
		logger: defLogger{},
	}
}

// WithLogger sets the logger.
func (m *AccountManager) WithLogger(logger Logger) *AccountManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// GetEmailStatus reports the registration state of an email address.
func (m *AccountManager) GetEmailStatus(ctx context.Context, email string) (EmailStatus, error) {
	account, err := m.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up email status")
	}
	return account.Status(), nil
}

// RegisterUser creates an account. The regular path requires the email to be
// unregistered, stores fresh salted credentials with a pending confirmation
// code, and mails the code. The social path creates a confirmed account with
// no credentials and sends nothing.
func (m *AccountManager) RegisterUser(ctx context.Context, reg Registration) error {
	email := NormalizeEmail(reg.Email)

	if reg.Social {
		account := SocialAccount(newAccountID(email), email, reg.FirstName, reg.LastName)
		if _, err := m.store.Save(ctx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create account")
		}
		return nil
	}

	status, err := m.GetEmailStatus(ctx, email)
	if err != nil {
		return err
	}
	if status != EmailStatusUnregistered {
		return ErrEmailAlreadyRegistered
	}

	salt := m.hasher.GenerateSalt()
	hash := m.hasher.Hash(reg.Password, salt)
	confirmationCode := uuid.NewString()

	account := RegularAccount(newAccountID(email), email, salt, hash, confirmationCode, reg.FirstName, reg.LastName)
	if _, err := m.store.Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create account")
	}

	m.mailConfirmationCode(ctx, account)

	return nil
}

// RegisterSocialUser reconciles a provider-verified profile with the account
// state. Unregistered emails get a confirmed social account, unconfirmed
// accounts are confirmed in place, and confirmed accounts are left alone.
// The operation is idempotent.
func (m *AccountManager) RegisterSocialUser(ctx context.Context, profile *social.Profile) error {
	email := NormalizeEmail(profile.Email)

	status, err := m.GetEmailStatus(ctx, email)
	if err != nil {
		return err
	}

	switch status {
	case EmailStatusUnregistered:
		return m.RegisterUser(ctx, Registration{
			Email:     email,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Social:    true,
		})
	case EmailStatusUnconfirmed:
		return m.ConfirmRegistration(ctx, Confirmation{
			Email:  email,
			Social: true,
		})
	}

	return nil
}

// SendConfirmationCode re-sends the pending confirmation code. The code on
// record is reused, so a client that registers and asks again gets the same
// code.
func (m *AccountManager) SendConfirmationCode(ctx context.Context, email string) error {
	status, err := m.GetEmailStatus(ctx, email)
	if err != nil {
		return err
	}
	if status == EmailStatusUnregistered {
		return ErrEmailUnregistered
	}
	if status == EmailStatusConfirmed {
		return ErrEmailAlreadyConfirmed
	}

	account, err := m.getAccount(ctx, email)
	if err != nil {
		return err
	}

	m.mailConfirmationCode(ctx, account)

	return nil
}

// ConfirmRegistration moves an account to confirmed. The regular path
// requires a registered, unconfirmed account and the matching code; the
// social path confirms without a code.
func (m *AccountManager) ConfirmRegistration(ctx context.Context, req Confirmation) error {
	if req.Social {
		account, err := m.getAccount(ctx, req.Email)
		if err != nil {
			return err
		}

		account.ConfirmRegistration()
		if _, err := m.store.Save(ctx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm account")
		}
		return nil
	}

	status, err := m.GetEmailStatus(ctx, req.Email)
	if err != nil {
		return err
	}
	if status == EmailStatusUnregistered {
		return ErrEmailUnregistered
	}
	if status == EmailStatusConfirmed {
		return ErrEmailAlreadyConfirmed
	}

	account, err := m.getAccount(ctx, req.Email)
	if err != nil {
		return err
	}

	if req.ConfirmationCode != account.ConfirmationCode {
		return ErrInvalidConfirmationCode
	}

	account.ConfirmRegistration()
	if _, err := m.store.Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm account")
	}

	return nil
}

// SendPasswordResetCode issues a fresh reset code and mails it. Unregistered
// emails succeed silently so the endpoint cannot be used to probe which
// addresses have accounts.
func (m *AccountManager) SendPasswordResetCode(ctx context.Context, email string) error {
	status, err := m.GetEmailStatus(ctx, email)
	if err != nil {
		return err
	}
	if status == EmailStatusUnregistered {
		return nil
	}

	account, err := m.getAccount(ctx, email)
	if err != nil {
		return err
	}

	account.SetPasswordResetCode(uuid.NewString())
	if _, err := m.store.Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store password reset code")
	}

	m.mailPasswordResetCode(ctx, account)

	return nil
}

// ResetPassword completes the forgot-password flow. The emailed code must
// match the one on record; a stale or wrong code never mutates the account.
// New credentials clear the code so it cannot be replayed.
func (m *AccountManager) ResetPassword(ctx context.Context, req PasswordReset) error {
	status, err := m.GetEmailStatus(ctx, req.Email)
	if err != nil {
		return err
	}
	if status == EmailStatusUnregistered {
		return ErrEmailUnregistered
	}

	account, err := m.getAccount(ctx, req.Email)
	if err != nil {
		return err
	}

	if account.PasswordResetCode == "" || req.PasswordResetCode != account.PasswordResetCode {
		return ErrInvalidPasswordResetCode
	}

	salt := m.hasher.GenerateSalt()
	account.UpdatePassword(salt, m.hasher.Hash(req.NewPassword, salt))
	if _, err := m.store.Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password")
	}

	return nil
}

// Profile returns the authenticated principal's account projection.
func (m *AccountManager) Profile(ctx context.Context) (*ProfileView, error) {
	account, err := m.principalAccount(ctx)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Social:    !account.HasPassword(),
	}, nil
}

// UpdateProfile replaces the authenticated principal's name fields.
func (m *AccountManager) UpdateProfile(ctx context.Context, firstName, lastName string) error {
	account, err := m.principalAccount(ctx)
	if err != nil {
		return err
	}

	account.UpdateProfile(firstName, lastName)
	if _, err := m.store.Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update profile")
	}

	return nil
}

// UpdatePassword changes the authenticated principal's password. Accounts
// that already hold a password must present the current one; social-only
// accounts set their first password without it. The account must be
// confirmed.
func (m *AccountManager) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return ErrSessionInvalid
	}

	account, err := m.requireConfirmed(ctx, principal.Email)
	if err != nil {
		return err
	}

	if account.HasPassword() {
		if err := m.verifyPassword(account, currentPassword); err != nil {
			return err
		}
	}

	salt := m.hasher.GenerateSalt()
	account.UpdatePassword(salt, m.hasher.Hash(newPassword, salt))
	if _, err := m.store.Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
	}

	return nil
}

// ValidateCredentials checks an email and password pair against the account
// on record. The account must be registered and confirmed.
func (m *AccountManager) ValidateCredentials(ctx context.Context, email, password string) error {
	account, err := m.requireConfirmed(ctx, email)
	if err != nil {
		return err
	}

	return m.verifyPassword(account, password)
}

func (m *AccountManager) principalAccount(ctx context.Context) (*Account, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, ErrSessionInvalid
	}
	return m.getAccount(ctx, principal.Email)
}

// requireConfirmed fetches the account and rejects unregistered and
// unconfirmed emails.
func (m *AccountManager) requireConfirmed(ctx context.Context, email string) (*Account, error) {
	account, err := m.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	switch account.Status() {
	case EmailStatusUnregistered:
		return nil, ErrEmailUnregistered
	case EmailStatusUnconfirmed:
		return nil, ErrEmailUnconfirmed
	}

	return account, nil
}

func (m *AccountManager) verifyPassword(account *Account, password string) error {
	if m.hasher.Hash(password, account.Salt) != account.PasswordHash {
		return ErrIncorrectCredentials
	}
	return nil
}

func (m *AccountManager) getAccount(ctx context.Context, email string) (*Account, error) {
	account, err := m.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}
	if account == nil {
		return nil, ErrEmailUnregistered
	}
	return account, nil
}

func (m *AccountManager) mailConfirmationCode(ctx context.Context, account *Account) {
	msg := mail.Message{
		Template:   mail.TemplateRegistrationConfirmation,
		Recipients: []string{account.Email},
		Variables: map[string]any{
			"email":             account.Email,
			"name":              account.FullName(),
			"confirmation_code": account.ConfirmationCode,
		},
	}
	if err := m.mailer.Send(ctx, msg); err != nil {
		m.logger.Error("failed to send confirmation code to %s: %v", account.Email, err)
	}
}

func (m *AccountManager) mailPasswordResetCode(ctx context.Context, account *Account) {
	msg := mail.Message{
		Template:   mail.TemplatePasswordReset,
		Recipients: []string{account.Email},
		Variables: map[string]any{
			"email":               account.Email,
			"name":                account.FullName(),
			"password_reset_code": account.PasswordResetCode,
		},
	}
	if err := m.mailer.Send(ctx, msg); err != nil {
		m.logger.Error("failed to send password reset code to %s: %v", account.Email, err)
	}
}

// newAccountID derives a stable account id from the email, falling back to a
// random id when derivation fails.
func newAccountID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}
