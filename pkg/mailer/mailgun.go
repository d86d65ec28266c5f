package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun sends rendered emails through one Mailgun domain.
type Mailgun struct {
	client mg.Mailgun
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

// Send delivers one message and returns the Mailgun message id. html is
// optional; tags label the message in Mailgun analytics.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string, tags ...string) (string, error) {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if len(tags) > 0 {
		if err := msg.AddTag(tags...); err != nil {
			return "", err
		}
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, id, err := m.client.Send(c, msg)
	return id, err
}
