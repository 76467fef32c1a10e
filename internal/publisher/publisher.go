package publisher

import "context"

// Message is one outbound topic message.
type Message struct {
	// Subject is the rendered notification subject.
	Subject string
	// Body is the rendered plain-text notification.
	Body string
	// Payload is the serialized notification payload read by subscribers.
	Payload []byte
	// GroupID and DeduplicationID are only honoured by FIFO topics.
	GroupID         string
	DeduplicationID string
	// Attributes are string attributes usable by subscription filters.
	Attributes map[string]string
}

// Publisher abstracts the publish/subscribe topic.
// Implementations are built once per process and must be safe for reuse
// across invocations and records.
type Publisher interface {
	Publish(ctx context.Context, msg Message) (messageID string, err error)
}
