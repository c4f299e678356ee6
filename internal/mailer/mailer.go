// Package mailer delivers outgoing email such as password reset links.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/yukikurage/forum-api/internal/config"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// New returns the Sender selected by cfg.MailProvider.
func New(cfg *config.Config) (Sender, error) {
	switch cfg.MailProvider {
	case "", "log":
		return LogSender{}, nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("MAIL_PROVIDER=smtp requires SMTP_HOST")
		}
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("MAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY")
		}
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.MailProvider)
	}
}

// LogSender writes emails to the log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, html string) error {
	log.Printf("mail to=%s subject=%q body=%s", to, subject, html)
	return nil
}
