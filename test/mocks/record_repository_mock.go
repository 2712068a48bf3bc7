package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// MockRecordRepository implements ports.RecordRepository. Records are kept
// in insertion order and listed newest first like the SQL adapter.
type MockRecordRepository struct {
	mu sync.RWMutex

	records []domain.Record
	clock   time.Time

	CreateRecordCalls []domain.Record
	OutboxPayloads    [][]byte

	CreateRecordError error
	ListError         error
}

var _ ports.RecordRepository = (*MockRecordRepository)(nil)

func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{clock: time.Now()}
}

func (m *MockRecordRepository) CreateRecord(ctx context.Context, record domain.Record, outboxPayload []byte) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateRecordCalls = append(m.CreateRecordCalls, record)
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)

	if m.CreateRecordError != nil {
		return nil, m.CreateRecordError
	}

	// Server-assigned, strictly increasing timestamps.
	m.clock = m.clock.Add(time.Millisecond)
	record.CreatedAt = m.clock

	m.records = append(m.records, record)
	return &record, nil
}

func (m *MockRecordRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.Record, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Record
	for _, record := range m.records {
		if record.StudentID == studentID {
			out = append(out, record)
		}
	}
	return newestFirst(out, limit), nil
}

func (m *MockRecordRepository) ListLatest(ctx context.Context, limit int) ([]domain.Record, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Record, len(m.records))
	copy(out, m.records)
	return newestFirst(out, limit), nil
}

func newestFirst(records []domain.Record, limit int) []domain.Record {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
