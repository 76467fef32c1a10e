package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender delivers email through Amazon SES. The sender address must be
// verified in the account; in the SES sandbox so must every recipient.
type SESSender struct {
	client    SESAPI
	configSet string
}

// NewSESSender builds a sender. configSet is optional and enables SES event
// publishing (bounces, complaints) for the messages sent.
func NewSESSender(client SESAPI, configSet string) *SESSender {
	return &SESSender{client: client, configSet: configSet}
}

func (s *SESSender) Send(ctx context.Context, e Email) (string, error) {
	in := &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{e.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(e.Body), Charset: aws.String(charset)},
			},
		},
		Source: aws.String(e.From),
	}
	if s.configSet != "" {
		in.ConfigurationSetName = aws.String(s.configSet)
	}

	out, err := s.client.SendEmail(ctx, in)
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// compile-time check that SESSender implements Sender
var _ Sender = (*SESSender)(nil)
