package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhub/decision-notifier/internal/publisher"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func testMessage() publisher.Message {
	return publisher.Message{
		Subject:         "Solicitud 42 APPROVED",
		Body:            "Hola,\n\nTu solicitud #42 fue APPROVED.\n\nGracias.",
		Payload:         []byte(`{"idApplication":42,"decision":"APPROVED","email":"a@x.com"}`),
		GroupID:         "application-42",
		DeduplicationID: "ev-1",
		Attributes:      map[string]string{"decision": "APPROVED"},
	}
}

func TestSNSPublisher_Publish(t *testing.T) {
	client := &fakeSNS{}
	p := publisher.NewSNSPublisher(client, "arn:aws:sns:us-east-1:123:decisions", false)

	id, err := p.Publish(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	require.Len(t, client.inputs, 1)

	in := client.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123:decisions", aws.ToString(in.TopicArn))
	assert.Equal(t, "Solicitud 42 APPROVED", aws.ToString(in.Subject))
	assert.Equal(t, "json", aws.ToString(in.MessageStructure))
	assert.Nil(t, in.MessageGroupId, "standard topics must not set a group id")
	assert.Nil(t, in.MessageDeduplicationId)
	assert.Equal(t, "APPROVED", aws.ToString(in.MessageAttributes["decision"].StringValue))

	var structured map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.Message)), &structured))
	assert.JSONEq(t, `{"idApplication":42,"decision":"APPROVED","email":"a@x.com"}`, structured["default"])
	assert.Equal(t, testMessage().Body, structured["email"])
}

func TestSNSPublisher_FIFO(t *testing.T) {
	client := &fakeSNS{}
	p := publisher.NewSNSPublisher(client, "arn:aws:sns:us-east-1:123:decisions.fifo", true)

	_, err := p.Publish(context.Background(), testMessage())
	require.NoError(t, err)

	in := client.inputs[0]
	assert.Equal(t, "application-42", aws.ToString(in.MessageGroupId))
	assert.Equal(t, "ev-1", aws.ToString(in.MessageDeduplicationId))
}

func TestSNSPublisher_Error(t *testing.T) {
	boom := errors.New("throttled")
	p := publisher.NewSNSPublisher(&fakeSNS{err: boom}, "arn", false)

	_, err := p.Publish(context.Background(), testMessage())
	assert.ErrorIs(t, err, boom)
}

func TestSubjectForSNS(t *testing.T) {
	long := "Solicitud " + strings.Repeat("A", 150) + " APPROVED"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Solicitud 42 APPROVED", "Solicitud 42 APPROVED"},
		{"accented decision", "Solicitud 42 APROBADÁ", "Solicitud 42 APROBADA"},
		{"tilde", "Solicitud año-7 Señal", "Solicitud ano-7 Senal"},
		{"line breaks", "Solicitud 42\r\nAPPROVED", "Solicitud 42  APPROVED"},
		{"no ascii equivalent", "Solicitud 42 承認", "Solicitud 42"},
		{"long id", long, long[:99]},
		{"nothing left", "承認", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, publisher.SubjectForSNS(tc.in))
		})
	}
}

func TestSNSPublisher_SubjectSanitized(t *testing.T) {
	client := &fakeSNS{}
	p := publisher.NewSNSPublisher(client, "arn:aws:sns:us-east-1:123:decisions", false)

	msg := testMessage()
	msg.Subject = "Solicitud " + strings.Repeat("9", 120) + " DENEGADÁ\n"
	_, err := p.Publish(context.Background(), msg)
	require.NoError(t, err)

	subject := aws.ToString(client.inputs[0].Subject)
	assert.Len(t, subject, 99)
	assert.NotContains(t, subject, "\n")
	for _, r := range subject {
		assert.True(t, r >= 0x20 && r < 0x7f, "unexpected rune %q", r)
	}

	msg.Subject = "\n"
	_, err = p.Publish(context.Background(), msg)
	require.NoError(t, err)
	assert.Nil(t, client.inputs[1].Subject, "an empty subject is omitted")
}
