package provider

import "context"

// Email is one outbound plain-text message.
type Email struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Sender abstracts delivery to an external email service.
// Substituting a test double gives full control over provider behaviour
// without making real network calls.
type Sender interface {
	Send(ctx context.Context, e Email) (messageID string, err error)
}
