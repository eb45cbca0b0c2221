package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends rendered notifications through one Mailgun domain.
type Mailgun struct {
	client  *mg.MailgunImpl
	Sender  string
	Timeout time.Duration
}

// NewMailgun builds the client once. apiBase is optional and selects a
// regional endpoint such as https://api.eu.mailgun.net/v3.
func NewMailgun(domain, apiKey, sender string, apiBase ...string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if len(apiBase) > 0 && apiBase[0] != "" {
		client.SetAPIBase(apiBase[0])
	}
	return &Mailgun{client: client, Sender: sender, Timeout: 10 * time.Second}
}

// Send delivers one message. html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return errors.New("mailgun: empty recipient")
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
