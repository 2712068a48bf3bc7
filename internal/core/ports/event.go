package ports

import (
	"context"
)

// RecordCreatedEvent is the integration event written to the outbox when a
// record is appended, published by the relay.
type RecordCreatedEvent struct {
	RecordID   string `json:"record_id"`
	StudentID  string `json:"student_id"`
	Type       string `json:"type"`
	AuthorUID  string `json:"author_uid"`
	AuthorRole string `json:"author_role"`
}

type RecordEventPublisher interface {
	PublishRecordCreated(ctx context.Context, evt RecordCreatedEvent) error
}
