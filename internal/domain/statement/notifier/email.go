package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailSender is satisfied by resend's Emails service
type EmailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier mails each event through Resend
type EmailNotifier struct {
	sender EmailSender
	from   string
	to     string
	logger *slog.Logger
}

func NewEmailNotifier(apiKey, from, to string, logger *slog.Logger) *EmailNotifier {
	return NewEmailNotifierWithSender(resend.NewClient(apiKey).Emails, from, to, logger)
}

func NewEmailNotifierWithSender(sender EmailSender, from, to string, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to, logger: logger}
}

func (n *EmailNotifier) Notify(_ context.Context, event Event) error {
	at := time.UnixMilli(event.Timestamp).UTC().Format(time.RFC3339)
	text := fmt.Sprintf("A statement was submitted for an unsupported bank.\n\nBank: %s\nResource: %s\nReceived: %s\n",
		event.Bank, event.ResourceURL, at)

	resp, err := n.sender.Send(&resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("Unsupported bank requested: %s", event.Bank),
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	n.logger.Info("unsupported bank email sent",
		slog.String("bank", event.Bank),
		slog.String("email_id", resp.Id),
	)
	return nil
}
