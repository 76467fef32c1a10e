package publisher

import (
	"context"
	"fmt"
	"sync"
)

// MockPublisher is a hand-written, in-memory Publisher used in unit tests.
type MockPublisher struct {
	mu       sync.Mutex
	messages []Message

	// Err, when set, is returned by every Publish call.
	Err error
	// FailOn returns an error for the n-th call (1-based) only.
	FailOn int
}

func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

func (m *MockPublisher) Publish(_ context.Context, msg Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.messages) + 1
	if m.Err != nil {
		return "", m.Err
	}
	if m.FailOn != 0 && call == m.FailOn {
		m.FailOn = 0
		return "", fmt.Errorf("mock publish failure on call %d", call)
	}
	m.messages = append(m.messages, msg)
	return fmt.Sprintf("msg-%d", call), nil
}

// Messages returns a copy of every successfully published message.
func (m *MockPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

var _ Publisher = (*MockPublisher)(nil)
