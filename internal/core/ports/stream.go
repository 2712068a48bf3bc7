package ports

import (
	"context"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
)

// RecordSnapshot is a full result-set delivery for one student's records,
// newest first. Each snapshot supersedes any prior delivery for the same
// subscription; consumers replace, never merge.
type RecordSnapshot struct {
	StudentID string          `json:"student_id"`
	Records   []domain.Record `json:"records"`
}

// Subscription is a live handle onto one student's record feed. Close
// releases it and closes the Snapshots channel; closing an already-released
// subscription is a no-op.
type Subscription interface {
	Snapshots() <-chan RecordSnapshot
	Close() error
}

// RecordStream opens live subscriptions scoped by student id. The first
// snapshot reflects the current state and is delivered without waiting for
// a change.
type RecordStream interface {
	Subscribe(ctx context.Context, studentID string) (Subscription, error)
}

// SnapshotSink is where a dashboard's subscription manager renders. The
// whole list is replaced on every call.
type SnapshotSink interface {
	RenderSnapshot(snapshot RecordSnapshot)
	// RenderNoSelection shows the "select a student" placeholder.
	RenderNoSelection()
}
