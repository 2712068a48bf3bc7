package services

import (
	"context"
	"sync"

	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// SubscriptionManager owns the zero-or-one live record subscription of a
// dashboard instance. Select is the only mutator: it unconditionally
// releases the previous subscription before opening the next one, so two
// listeners are never live at once and the rendered list always matches
// the most recently requested student.
type SubscriptionManager struct {
	stream ports.RecordStream
	sink   ports.SnapshotSink

	mu     sync.Mutex
	active ports.Subscription
	done   chan struct{}
}

func NewSubscriptionManager(stream ports.RecordStream, sink ports.SnapshotSink) *SubscriptionManager {
	return &SubscriptionManager{stream: stream, sink: sink}
}

// Select switches the manager to studentID. An empty id releases any active
// subscription and renders the "select a student" placeholder without
// opening a new one.
func (m *SubscriptionManager) Select(ctx context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	if studentID == "" {
		m.sink.RenderNoSelection()
		return nil
	}

	sub, err := m.stream.Subscribe(ctx, studentID)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	m.active = sub
	m.done = done
	go m.pump(sub, done)
	return nil
}

// Close releases the active subscription, if any. Safe to call repeatedly
// and on a manager that never subscribed.
func (m *SubscriptionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

// Active reports whether a subscription is currently open.
func (m *SubscriptionManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}

// releaseLocked drops the current subscription and waits for its pump to
// stop, so a stale snapshot can never render after a newer Select.
func (m *SubscriptionManager) releaseLocked() {
	if m.active == nil {
		return
	}
	_ = m.active.Close()
	<-m.done
	m.active = nil
	m.done = nil
}

func (m *SubscriptionManager) pump(sub ports.Subscription, done chan struct{}) {
	defer close(done)
	for snapshot := range sub.Snapshots() {
		m.sink.RenderSnapshot(snapshot)
	}
}
