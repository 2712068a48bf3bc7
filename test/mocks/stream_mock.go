package mocks

import (
	"context"
	"sync"

	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// MockRecordStream implements ports.RecordStream. Every Subscribe call
// hands back a controllable subscription; tests push snapshots through it
// and inspect which subscriptions are open.
type MockRecordStream struct {
	mu sync.Mutex

	SubscribeCalls []string
	Subscriptions  []*MockSubscription

	SubscribeError error
}

var _ ports.RecordStream = (*MockRecordStream)(nil)

func NewMockRecordStream() *MockRecordStream {
	return &MockRecordStream{}
}

func (m *MockRecordStream) Subscribe(ctx context.Context, studentID string) (ports.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubscribeCalls = append(m.SubscribeCalls, studentID)

	if m.SubscribeError != nil {
		return nil, m.SubscribeError
	}

	sub := &MockSubscription{
		StudentID: studentID,
		ch:        make(chan ports.RecordSnapshot, 8),
	}
	m.Subscriptions = append(m.Subscriptions, sub)
	return sub, nil
}

// OpenCount reports how many handed-out subscriptions are still open.
func (m *MockRecordStream) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	open := 0
	for _, sub := range m.Subscriptions {
		if !sub.IsClosed() {
			open++
		}
	}
	return open
}

type MockSubscription struct {
	StudentID string

	mu     sync.Mutex
	ch     chan ports.RecordSnapshot
	closed bool
}

var _ ports.Subscription = (*MockSubscription)(nil)

func (s *MockSubscription) Snapshots() <-chan ports.RecordSnapshot {
	return s.ch
}

// Push delivers a snapshot to the subscriber; returns false if the
// subscription was already closed.
func (s *MockSubscription) Push(snapshot ports.RecordSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.ch <- snapshot
	return true
}

func (s *MockSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.ch)
	return nil
}

func (s *MockSubscription) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// MockSnapshotSink implements ports.SnapshotSink and records everything
// rendered, signalling arrivals so tests can wait without sleeping.
type MockSnapshotSink struct {
	mu sync.Mutex

	Snapshots    []ports.RecordSnapshot
	NoSelections int

	arrived chan struct{}
}

var _ ports.SnapshotSink = (*MockSnapshotSink)(nil)

func NewMockSnapshotSink() *MockSnapshotSink {
	return &MockSnapshotSink{arrived: make(chan struct{}, 64)}
}

func (m *MockSnapshotSink) RenderSnapshot(snapshot ports.RecordSnapshot) {
	m.mu.Lock()
	m.Snapshots = append(m.Snapshots, snapshot)
	m.mu.Unlock()
	m.arrived <- struct{}{}
}

func (m *MockSnapshotSink) RenderNoSelection() {
	m.mu.Lock()
	m.NoSelections++
	m.mu.Unlock()
	m.arrived <- struct{}{}
}

// Arrived exposes the render-signal channel for tests to wait on.
func (m *MockSnapshotSink) Arrived() <-chan struct{} {
	return m.arrived
}

// Rendered returns a copy of everything rendered so far.
func (m *MockSnapshotSink) Rendered() []ports.RecordSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.RecordSnapshot, len(m.Snapshots))
	copy(out, m.Snapshots)
	return out
}
