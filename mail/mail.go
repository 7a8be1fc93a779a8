// Package mail is the outbound mail dispatcher contract used by the account
// lifecycle manager. Sends are best effort: the lifecycle operations that
// trigger them never fail because a message could not be delivered.
package mail

import "context"

// Template identifies a transactional mail template by its provider-side
// alias.
type Template string

const (
	// TemplateRegistrationConfirmation carries the confirmation code sent
	// after a regular registration.
	TemplateRegistrationConfirmation Template = "registration_confirmation"
	// TemplatePasswordReset carries the one-time password reset code.
	TemplatePasswordReset Template = "password_reset"
)

// Subject returns the fixed subject line for the template. Providers that
// render subjects from the template itself may ignore it.
func (t Template) Subject() string {
	switch t {
	case TemplateRegistrationConfirmation:
		return "Chat - Registration Confirmation"
	case TemplatePasswordReset:
		return "Chat - Password Reset"
	default:
		return "Chat"
	}
}

// Message is a templated outbound mail: template id, recipients, and the
// variable bag the template is rendered with.
type Message struct {
	Template   Template
	Recipients []string
	Variables  map[string]any
}

// Sender dispatches templated messages. Implementations decide what a
// delivery failure means; callers treat sends as fire-and-forget.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
