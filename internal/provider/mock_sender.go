package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockSender is a hand-written, in-memory Sender used in unit tests.
type MockSender struct {
	mu   sync.Mutex
	sent []Email

	// Err, when set, is returned by every Send call.
	Err error
	// FailFor makes Send fail for this recipient only.
	FailFor string
}

func NewMockSender() *MockSender { return &MockSender{} }

func (m *MockSender) Send(_ context.Context, e Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.FailFor != "" && e.To == m.FailFor {
		return "", fmt.Errorf("mock: recipient %s rejected", e.To)
	}
	m.sent = append(m.sent, e)
	return fmt.Sprintf("mail-%d", len(m.sent)), nil
}

// Sent returns a copy of every successfully sent email.
func (m *MockSender) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ Sender = (*MockSender)(nil)
