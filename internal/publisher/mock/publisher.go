package mock

import (
	"context"
	"sync"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/publisher"
)

// Ensure MockPublisher implements publisher.Publisher.
var _ publisher.Publisher = (*MockPublisher)(nil)

// MockPublisher is a mock message publisher for testing.
type MockPublisher struct {
	mu        sync.Mutex
	Published []*domain.RejudgeMessage
	PublishFn func(ctx context.Context, msg *domain.RejudgeMessage) error
	PingErr   error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Messages returns a snapshot of the published messages.
func (m *MockPublisher) Messages() []*domain.RejudgeMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.RejudgeMessage(nil), m.Published...)
}

func (m *MockPublisher) Publish(ctx context.Context, msg *domain.RejudgeMessage) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, msg)
	return nil
}

func (m *MockPublisher) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockPublisher) Close() error {
	return nil
}
