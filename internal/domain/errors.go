package domain

import "errors"

// Sentinel errors used throughout the application.
// Callers wrap them with %w and classify with errors.Is; Reason maps them to
// the metric label used for failed records.
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrEnvelope         = errors.New("forwarding envelope has no message content")
	ErrPublishFailure   = errors.New("topic publish failed")
	ErrSendFailure      = errors.New("email send failed")
	ErrNotAttempted     = errors.New("record not attempted: batch aborted")
)

// Reason returns a short, stable label for err.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, ErrEnvelope):
		return "envelope"
	case errors.Is(err, ErrPublishFailure):
		return "publish"
	case errors.Is(err, ErrSendFailure):
		return "send"
	case errors.Is(err, ErrNotAttempted):
		return "not_attempted"
	default:
		return "internal"
	}
}
