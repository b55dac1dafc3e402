package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// Sender delivers a single email message
type Sender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// SESSender sends email through AWS SESv2
type SESSender struct {
	client      *sesv2.Client
	senderEmail string
	senderName  string
}

// NewSESSender creates an SES-backed sender
func NewSESSender(client *sesv2.Client, senderEmail, senderName string) *SESSender {
	return &SESSender{
		client:      client,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *SESSender) Send(ctx context.Context, msg *EmailMessage) error {
	from := s.senderEmail
	if s.senderName != "" {
		from = fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.Recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: aws.String(msg.Subject),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data: aws.String(msg.Body),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.Recipient, err)
	}

	return nil
}

// LogSender logs instead of sending. Used when SES is not configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg *EmailMessage) error {
	s.logger.Info("Email delivery skipped (no sender configured)",
		zap.String("kind", msg.Kind),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject))
	return nil
}
