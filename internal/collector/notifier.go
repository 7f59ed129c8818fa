package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/feedbackkit/internal/pkg/logger"
)

// sesSender is the slice of the SES v2 API the notifier uses; tests inject
// a fake.
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier emails the support address about each accepted submission
// so the team sees feedback without polling the dashboard. Send failures
// are logged and never fail the intake.
type SESNotifier struct {
	client       sesSender
	supportEmail string
	fromEmail    string
}

// NewSESNotifier creates an SES-backed notifier from the notify config.
func NewSESNotifier(ctx context.Context, cfg NotifyConfig) (*SESNotifier, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESNotifier{
		client:       sesv2.NewFromConfig(awsCfg),
		supportEmail: cfg.SupportEmail,
		fromEmail:    cfg.FromEmail,
	}, nil
}

// FeedbackReceived sends the notification email for one entry.
func (n *SESNotifier) FeedbackReceived(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	subject := "New feedback"
	if entry.Type != nil {
		subject = fmt.Sprintf("New feedback (%s)", *entry.Type)
	}

	body := fmt.Sprintf("Feedback %s received at %s:\n\n%s\n",
		entry.ID, entry.ReceivedAt.Format(time.RFC3339), entry.Message)
	if entry.ReplyEmail != nil {
		body += fmt.Sprintf("\nReply to: %s\n", *entry.ReplyEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.fromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.supportEmail},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		logger.Warn("feedback notification failed", "id", entry.ID, "error", err)
		return
	}
	logger.Debug("feedback notification sent", "id", entry.ID)
}
