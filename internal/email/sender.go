// Package email renders and delivers transactional email.
// Delivery failures are reported to callers but must never roll back
// the state change that triggered the mail.
package email

import (
	"context"

	"agenda_backend/platform/config"
)

type Sender interface {
	SendCancellationEmail(ctx context.Context, toEmail, providerName, clientName, formattedDate string) error
	SendReminderEmail(ctx context.Context, toEmail, providerName, clientName, formattedDate string) error
}

// NoopSender is used when email delivery is disabled. All sends succeed
// without doing anything.
type NoopSender struct{}

func (NoopSender) SendCancellationEmail(ctx context.Context, toEmail, providerName, clientName, formattedDate string) error {
	return nil
}

func (NoopSender) SendReminderEmail(ctx context.Context, toEmail, providerName, clientName, formattedDate string) error {
	return nil
}

// NewSender picks the delivery backend from configuration.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
