package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// ErrInvalidConfig is returned when the Postmark sender is constructed with
// missing settings.
var ErrInvalidConfig = errors.New("mail: invalid postmark configuration")

// ErrSendFailed wraps provider-side delivery failures.
var ErrSendFailed = errors.New("mail: failed to send email")

// Config holds the Postmark sender settings. PortalURL is injected into
// every variable bag as chat_portal_url so templates can link back into the
// app. Disabled senders accept messages and drop them, which keeps local
// environments from mailing real addresses.
type Config struct {
	ServerToken    string
	AccountToken   string
	FromAddress    string
	SupportAddress string
	PortalURL      string
	Enabled        bool
}

type postmarkSender struct {
	client *postmark.Client
	config Config
}

// NewPostmarkSender creates a Postmark-backed dispatcher.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: ServerToken is required", ErrInvalidConfig)
	}
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: AccountToken is required", ErrInvalidConfig)
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("%w: FromAddress is required", ErrInvalidConfig)
	}

	return &postmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}, nil
}

// Send renders the message through the provider-side template alias. The
// support address is bcc'd so delivery issues surface to the team.
func (s *postmarkSender) Send(ctx context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("%w: message has no recipients", ErrSendFailed)
	}

	if !s.config.Enabled {
		return nil
	}

	model := make(map[string]any, len(msg.Variables)+1)
	for k, v := range msg.Variables {
		model[k] = v
	}
	model["chat_portal_url"] = s.config.PortalURL

	resp, err := s.client.SendTemplatedEmail(ctx, postmark.TemplatedEmail{
		TemplateAlias: string(msg.Template),
		TemplateModel: model,
		From:          s.config.FromAddress,
		To:            strings.Join(msg.Recipients, ","),
		Bcc:           s.config.SupportAddress,
		Tag:           string(msg.Template),
		TrackOpens:    true,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}

	return nil
}
