package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of the SQS client used here
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier pushes events onto an SQS queue as JSON
type SQSNotifier struct {
	client   SQSAPI
	queueURL string
	logger   *slog.Logger
}

// NewSQSNotifier loads AWS credentials from the default chain
func NewSQSNotifier(ctx context.Context, region, queueURL string, logger *slog.Logger) (*SQSNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSQSNotifierWithClient(sqs.NewFromConfig(cfg), queueURL, logger), nil
}

func NewSQSNotifierWithClient(client SQSAPI, queueURL string, logger *slog.Logger) *SQSNotifier {
	return &SQSNotifier{client: client, queueURL: queueURL, logger: logger}
}

func (n *SQSNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	out, err := n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send sqs message: %w", err)
	}

	n.logger.Info("unsupported bank event queued",
		slog.String("bank", event.Bank),
		slog.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}
