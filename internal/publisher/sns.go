package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SNS rejects subjects of 100 characters or more.
const maxSubjectLen = 99

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes to an SNS topic using a per-protocol message:
// subscribers reading the default message (Lambda, SQS) get the payload,
// email subscribers get the rendered text.
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
	fifo     bool
}

func NewSNSPublisher(client SNSAPI, topicARN string, fifo bool) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN, fifo: fifo}
}

func (p *SNSPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	structured, err := json.Marshal(map[string]string{
		"default": string(msg.Payload),
		"email":   msg.Body,
	})
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	in := &sns.PublishInput{
		TopicArn:         aws.String(p.topicARN),
		Message:          aws.String(string(structured)),
		MessageStructure: aws.String("json"),
	}
	if subject := SubjectForSNS(msg.Subject); subject != "" {
		in.Subject = aws.String(subject)
	}
	if len(msg.Attributes) > 0 {
		in.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for k, v := range msg.Attributes {
			in.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}
	}
	if p.fifo {
		in.MessageGroupId = aws.String(msg.GroupID)
		in.MessageDeduplicationId = aws.String(msg.DeduplicationID)
	}

	out, err := p.client.Publish(ctx, in)
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// SubjectForSNS reduces s to what SNS accepts as an email subject: printable
// ASCII on a single line, shorter than 100 characters. Accented letters lose
// their marks, line breaks become spaces and other characters are dropped.
func SubjectForSNS(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\r' || r == '\n' || r == '\t':
			b.WriteByte(' ')
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		}
		if b.Len() >= maxSubjectLen {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

// compile-time check that SNSPublisher implements Publisher
var _ Publisher = (*SNSPublisher)(nil)
