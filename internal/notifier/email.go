// Package notifier dispatches the change notification over SMTP. The core
// hands it a finished payload; transport, authentication, and the decision
// to skip when credentials are unconfigured live here.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"nygaming/internal/config"
	apperrors "nygaming/internal/errors"
)

// Notifier delivers a payload to the configured recipient.
type Notifier interface {
	Configured() bool
	Send(ctx context.Context, payload Payload) error
}

// EmailNotifier sends payloads over SMTP with STARTTLS.
type EmailNotifier struct {
	logger *slog.Logger
	cfg    config.SMTPConfig
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(logger *slog.Logger, cfg config.SMTPConfig) *EmailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailNotifier{logger: logger, cfg: cfg}
}

// Configured reports whether credentials and a recipient are present.
// An unconfigured notifier is skipped with a warning, not an error.
func (n *EmailNotifier) Configured() bool {
	return n.cfg.Configured()
}

// Send delivers the payload. A dispatch failure is returned as a notify
// error so the run fails loudly; a failed send must never look like
// "no changes" to the next run.
func (n *EmailNotifier) Send(ctx context.Context, payload Payload) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.User); err != nil {
		return apperrors.Notify(fmt.Errorf("invalid sender address %q: %w", n.cfg.User, err))
	}
	if err := msg.To(n.cfg.To); err != nil {
		return apperrors.Notify(fmt.Errorf("invalid recipient address %q: %w", n.cfg.To, err))
	}
	msg.Subject(payload.Subject)
	msg.SetBodyString(mail.TypeTextHTML, payload.HTMLBody)

	for _, att := range payload.Attachments {
		if err := msg.AttachReader(att.Filename, bytes.NewReader(att.Content)); err != nil {
			return apperrors.Notify(fmt.Errorf("failed to attach %s: %w", att.Filename, err))
		}
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.User),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return apperrors.Notify(fmt.Errorf("failed to create SMTP client: %w", err))
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return apperrors.Notify(err)
	}

	n.logger.InfoContext(ctx, "notification sent",
		slog.String("to", n.cfg.To),
		slog.Int("attachments", len(payload.Attachments)))

	return nil
}
