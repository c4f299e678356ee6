package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/yukikurage/forum-api/internal/utils"
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Forum", from),
	}
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, html string) error {
	plain := utils.Snippet(html, len(html))
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), plain, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email to %s: status %d", to, response.StatusCode)
	}
	return nil
}
