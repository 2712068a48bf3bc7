package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

const (
	// studentFeedLimit caps the per-student record query.
	studentFeedLimit = 100
	// globalFeedLimit matches the last-20 system-wide feed of the generic
	// dashboard.
	globalFeedLimit = 20
)

// RecordService validates and appends records. Author identity and role are
// copied from the authenticated session, never taken from the request body.
type RecordService struct {
	records     ports.RecordRepository
	activeRoles ports.ActiveRoleStore
}

func NewRecordService(records ports.RecordRepository, activeRoles ports.ActiveRoleStore) *RecordService {
	return &RecordService{records: records, activeRoles: activeRoles}
}

var _ ports.RecordService = (*RecordService)(nil)

func (s *RecordService) Submit(ctx context.Context, author domain.Identity, studentID string, kind domain.RecordKind, text string) (*domain.Record, error) {
	text = strings.TrimSpace(text)
	if studentID == "" {
		return nil, domain.ValidationError("studentId", "is required")
	}
	if text == "" {
		return nil, domain.ValidationError("text", "is required")
	}
	if kind == "" {
		kind = domain.RecordNota
	}

	authorRole := s.authorRole(ctx, author)

	record := domain.Record{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Type:        kind,
		Text:        text,
		CreatedAt:   time.Now(), // overwritten by the store's server timestamp
		AuthorUID:   author.UserID,
		AuthorEmail: author.Email,
		AuthorRole:  authorRole,
	}

	evt := ports.RecordCreatedEvent{
		RecordID:   record.ID,
		StudentID:  record.StudentID,
		Type:       string(record.Type),
		AuthorUID:  record.AuthorUID,
		AuthorRole: string(record.AuthorRole),
	}
	outboxPayload, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	created, err := s.records.CreateRecord(ctx, record, outboxPayload)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "create record", Err: err}
	}
	return created, nil
}

func (s *RecordService) ListForStudent(ctx context.Context, studentID string) ([]domain.Record, error) {
	if studentID == "" {
		return nil, domain.ValidationError("studentId", "is required")
	}
	records, err := s.records.ListByStudent(ctx, studentID, studentFeedLimit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list records", Err: err}
	}
	return records, nil
}

func (s *RecordService) ListLatest(ctx context.Context) ([]domain.Record, error) {
	records, err := s.records.ListLatest(ctx, globalFeedLimit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list latest records", Err: err}
	}
	return records, nil
}

// authorRole picks the role stamped on the record: the session's chosen
// active role when one is stored, else the first role of the identity,
// else parent so the author line always has something to show.
func (s *RecordService) authorRole(ctx context.Context, author domain.Identity) domain.Role {
	if role, err := s.activeRoles.GetActiveRole(ctx, author.UserID); err == nil && role != "" {
		return role
	}
	if len(author.Roles) > 0 {
		return author.Roles[0]
	}
	return domain.RoleParent
}
