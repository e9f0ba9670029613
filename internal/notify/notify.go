// Package notify tells the site operator about completed payments over
// email (SES) and SMS (SNS). Both channels are off by default; a failed
// send never fails the webhook that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"town-connect/internal/common/config"
	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/logger"
	"town-connect/internal/payments"
)

// Notifier announces a recorded payment to the operator.
type Notifier interface {
	PaymentRecorded(ctx context.Context, entry payments.Entry) error
}

type sesAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type snsAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// AWSNotifier sends over SES and SNS per channel toggles.
type AWSNotifier struct {
	cfg    config.NotificationConfig
	email  sesAPI
	sms    snsAPI
	logger logger.Logger
}

// NewAWSNotifier builds clients from the ambient AWS credential chain.
func NewAWSNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*AWSNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &AWSNotifier{
		cfg:    cfg,
		email:  ses.NewFromConfig(awsCfg),
		sms:    sns.NewFromConfig(awsCfg),
		logger: log,
	}, nil
}

func (n *AWSNotifier) PaymentRecorded(ctx context.Context, entry payments.Entry) error {
	subject := fmt.Sprintf("Payment received: %s (R%.2f)", entry.ItemName, entry.AmountGross)
	body := fmt.Sprintf(
		"Tenant: %s\nItem: %s\nGross: R%.2f\nNet: R%.2f\nBuyer: %s\nPayFast ID: %s\n",
		entry.TenantSlug, entry.ItemName, entry.AmountGross, entry.AmountNet,
		entry.BuyerEmail, entry.PaymentID,
	)

	if n.cfg.Email.Enabled {
		_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
			Source:      aws.String(n.cfg.Email.FromEmail),
			Destination: &sestypes.Destination{ToAddresses: []string{n.cfg.Email.ToEmail}},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(body)}},
			},
		})
		if err != nil {
			return stderrors.NewNotificationSendFailedError("email", err)
		}
	}

	if n.cfg.SMS.Enabled {
		_, err := n.sms.Publish(ctx, &sns.PublishInput{
			PhoneNumber: aws.String(n.cfg.SMS.ToNumber),
			Message:     aws.String(subject),
		})
		if err != nil {
			return stderrors.NewNotificationSendFailedError("sms", err)
		}
	}

	return nil
}

// NoOpNotifier is used when both channels are disabled.
type NoOpNotifier struct{}

func (NoOpNotifier) PaymentRecorded(ctx context.Context, entry payments.Entry) error {
	return nil
}
