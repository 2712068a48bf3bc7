package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// Channel and event names shared with the snapshot hub and the outbox relay.
const (
	RecordsChannel     = "records_channel"
	OutboxChannel      = "outbox_channel"
	RecordCreatedEvent = "record.created"
)

type SQLRecordRepository struct {
	db *sql.DB
}

var _ ports.RecordRepository = (*SQLRecordRepository)(nil)

func NewSQLRecordRepository(db *sql.DB) *SQLRecordRepository {
	return &SQLRecordRepository{db: db}
}

// CreateRecord appends the record, writes the outbox event and fires the
// NOTIFY signals in a single transaction, so live subscribers and the relay
// only ever see committed records. The store assigns the timestamp.
func (r *SQLRecordRepository) CreateRecord(ctx context.Context, record domain.Record, outboxPayload []byte) (*domain.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO records (id, student_id, type, text, created_at, author_uid, author_email, author_role)
         VALUES ($1, $2, $3, $4, NOW(), $5, $6, $7)
         RETURNING created_at`,
		record.ID,
		record.StudentID,
		record.Type,
		record.Text,
		record.AuthorUID,
		record.AuthorEmail,
		record.AuthorRole,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, err
	}

	outboxID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, created_at)
         VALUES ($1, $2, $3, NOW())`,
		outboxID,
		RecordCreatedEvent,
		outboxPayload,
	)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", OutboxChannel, outboxID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", RecordsChannel, record.StudentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *SQLRecordRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.Record, error) {
	return r.list(ctx,
		`SELECT id, student_id, type, text, created_at, author_uid, author_email, author_role
         FROM records WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2`,
		studentID, limit,
	)
}

func (r *SQLRecordRepository) ListLatest(ctx context.Context, limit int) ([]domain.Record, error) {
	return r.list(ctx,
		`SELECT id, student_id, type, text, created_at, author_uid, author_email, author_role
         FROM records ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
}

func (r *SQLRecordRepository) list(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var record domain.Record
		if err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.Type,
			&record.Text,
			&record.CreatedAt,
			&record.AuthorUID,
			&record.AuthorEmail,
			&record.AuthorRole,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
