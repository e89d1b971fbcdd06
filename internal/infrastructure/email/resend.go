// Package email delivers admin notifications through the Resend API.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/chismoso/checkin-api/internal/core/ports"
)

const defaultFrom = "Chismoso <onboarding@resend.dev>"

// Notifier implements ports.Notifier on the Resend SDK.
type Notifier struct {
	client *resend.Client
	from   string
}

// NewNotifier builds a Notifier. An empty from falls back to the
// onboarding sender, which Resend accepts without domain verification.
func NewNotifier(apiKey, from string) *Notifier {
	if from == "" {
		from = defaultFrom
	}
	return &Notifier{client: resend.NewClient(apiKey), from: from}
}

func (n *Notifier) Send(ctx context.Context, notification ports.Notification) error {
	_, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{notification.To},
		Subject: notification.Subject,
		Html:    notification.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
