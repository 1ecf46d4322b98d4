package notifier

import (
	"context"

	"github.com/FACorreiaa/statement-processor/pkg/push"
)

// WebhookNotifier posts events as JSON to a fixed URL
type WebhookNotifier struct {
	push *push.Service
	url  string
}

func NewWebhookNotifier(svc *push.Service, url string) *WebhookNotifier {
	return &WebhookNotifier{push: svc, url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	return n.push.Send(ctx, n.url, event)
}
