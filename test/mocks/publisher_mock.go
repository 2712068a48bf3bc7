package mocks

import (
	"context"
	"sync"

	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// MockRecordPublisher implements ports.RecordEventPublisher.
type MockRecordPublisher struct {
	mu sync.Mutex

	PublishedEvents []ports.RecordCreatedEvent
	PublishError    error
}

var _ ports.RecordEventPublisher = (*MockRecordPublisher)(nil)

func NewMockRecordPublisher() *MockRecordPublisher {
	return &MockRecordPublisher{}
}

func (m *MockRecordPublisher) PublishRecordCreated(ctx context.Context, evt ports.RecordCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}
