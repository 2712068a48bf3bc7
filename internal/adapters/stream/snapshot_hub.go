package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/pensamiento-creativo/student-records-service/internal/adapters/metrics"
	"github.com/pensamiento-creativo/student-records-service/internal/adapters/repository"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute

	snapshotQueryTimeout = 10 * time.Second
	keepAliveInterval    = 90 * time.Second

	// snapshotLimit caps every snapshot's result set.
	snapshotLimit = 100
)

// SnapshotHub implements ports.RecordStream on top of PostgreSQL
// LISTEN/NOTIFY. Record inserts notify records_channel with the student id;
// the hub re-runs the per-student query and fans the full result set out to
// every subscriber of that student. Subscribers always receive complete
// snapshots, newest first, never deltas.
type SnapshotHub struct {
	records  ports.RecordRepository
	dbURL    string
	listener *pq.Listener

	mu        sync.Mutex
	subs      map[string]map[*hubSubscription]struct{}
	listening bool
}

var _ ports.RecordStream = (*SnapshotHub)(nil)

func NewSnapshotHub(records ports.RecordRepository, dbURL string) *SnapshotHub {
	return &SnapshotHub{
		records: records,
		dbURL:   dbURL,
		subs:    make(map[string]map[*hubSubscription]struct{}),
	}
}

// Start runs the LISTEN loop. Blocking; returns when the context is
// cancelled.
func (h *SnapshotHub) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("snapshot hub: listener error: %v", err)
		}
	}

	h.listener = pq.NewListener(h.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer h.listener.Close()

	if err := h.listener.Listen(repository.RecordsChannel); err != nil {
		return err
	}

	h.setListening(true)
	defer h.setListening(false)

	log.Printf("snapshot hub: listening on '%s' for record changes...", repository.RecordsChannel)

	for {
		select {
		case <-ctx.Done():
			log.Println("snapshot hub: shutting down...")
			h.closeAll()
			return ctx.Err()

		case notification := <-h.listener.Notify:
			if notification == nil {
				// Connection was re-established; subscribers may have missed
				// notifications, refresh everything.
				log.Println("snapshot hub: reconnected, refreshing all subscriptions")
				h.refreshAll(ctx)
				continue
			}
			h.broadcast(ctx, notification.Extra)

		case <-time.After(keepAliveInterval):
			go h.listener.Ping()
		}
	}
}

// Subscribe opens a live subscription for studentID. The current state is
// delivered as the first snapshot without waiting for a change.
func (h *SnapshotHub) Subscribe(ctx context.Context, studentID string) (ports.Subscription, error) {
	snapshot, err := h.query(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sub := &hubSubscription{
		hub:       h,
		studentID: studentID,
		ch:        make(chan ports.RecordSnapshot, 1),
	}

	h.mu.Lock()
	if h.subs[studentID] == nil {
		h.subs[studentID] = make(map[*hubSubscription]struct{})
	}
	h.subs[studentID][sub] = struct{}{}
	h.mu.Unlock()

	metrics.ActiveSubscriptions.Inc()
	sub.deliver(snapshot)
	return sub, nil
}

func (h *SnapshotHub) query(ctx context.Context, studentID string) (ports.RecordSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotQueryTimeout)
	defer cancel()

	records, err := h.records.ListByStudent(ctx, studentID, snapshotLimit)
	if err != nil {
		return ports.RecordSnapshot{}, err
	}
	return ports.RecordSnapshot{StudentID: studentID, Records: records}, nil
}

func (h *SnapshotHub) broadcast(ctx context.Context, studentID string) {
	h.mu.Lock()
	targets := make([]*hubSubscription, 0, len(h.subs[studentID]))
	for sub := range h.subs[studentID] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	snapshot, err := h.query(ctx, studentID)
	if err != nil {
		log.Printf("snapshot hub: query for student %s: %v", studentID, err)
		return
	}

	for _, sub := range targets {
		sub.deliver(snapshot)
	}
}

func (h *SnapshotHub) refreshAll(ctx context.Context) {
	h.mu.Lock()
	students := make([]string, 0, len(h.subs))
	for studentID, subs := range h.subs {
		if len(subs) > 0 {
			students = append(students, studentID)
		}
	}
	h.mu.Unlock()

	for _, studentID := range students {
		h.broadcast(ctx, studentID)
	}
}

func (h *SnapshotHub) closeAll() {
	h.mu.Lock()
	var all []*hubSubscription
	for _, subs := range h.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range all {
		_ = sub.Close()
	}
}

// Listening reports whether the hub is attached to its notification
// channel. Readiness probes use it; a hub that is not listening still
// serves initial snapshots but misses live changes.
func (h *SnapshotHub) Listening() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listening
}

func (h *SnapshotHub) setListening(v bool) {
	h.mu.Lock()
	h.listening = v
	h.mu.Unlock()
}

func (h *SnapshotHub) unsubscribe(sub *hubSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[sub.studentID]; ok {
		if _, present := subs[sub]; present {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.subs, sub.studentID)
			}
		}
	}
}

// hubSubscription delivers snapshots latest-wins through a one-slot
// channel: a slow consumer only ever skips intermediate states, never
// observes a stale one after a newer delivery.
type hubSubscription struct {
	hub       *SnapshotHub
	studentID string

	mu     sync.Mutex
	ch     chan ports.RecordSnapshot
	closed bool
}

var _ ports.Subscription = (*hubSubscription)(nil)

func (s *hubSubscription) Snapshots() <-chan ports.RecordSnapshot {
	return s.ch
}

func (s *hubSubscription) deliver(snapshot ports.RecordSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// Drop the undelivered predecessor, if any, then enqueue.
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snapshot
	metrics.SnapshotsDelivered.Inc()
}

func (s *hubSubscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	s.hub.unsubscribe(s)
	metrics.ActiveSubscriptions.Dec()
	return nil
}
