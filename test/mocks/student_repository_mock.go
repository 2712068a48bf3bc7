package mocks

import (
	"context"
	"sync"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// MockStudentRepository implements ports.StudentRepository with the same
// set-union semantics as the SQL adapter: adding an existing member is a
// no-op.
type MockStudentRepository struct {
	mu sync.RWMutex

	students map[string]*domain.Student

	CreateStudentCalls []domain.Student
	AddMemberCalls     []AddMemberCall

	CreateStudentError error
	AddMemberError     error
	ListError          error
}

type AddMemberCall struct {
	StudentID string
	Kind      domain.AssignmentKind
	UserID    string
}

var _ ports.StudentRepository = (*MockStudentRepository)(nil)

func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{students: make(map[string]*domain.Student)}
}

func (m *MockStudentRepository) SeedStudent(student *domain.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[student.ID] = student
}

func (m *MockStudentRepository) CreateStudent(ctx context.Context, student domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateStudentCalls = append(m.CreateStudentCalls, student)

	if m.CreateStudentError != nil {
		return m.CreateStudentError
	}

	m.students[student.ID] = &student
	return nil
}

func (m *MockStudentRepository) FindStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[studentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return student, nil
}

func (m *MockStudentRepository) ListByDoctor(ctx context.Context, doctorUID string) ([]domain.Student, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Student
	for _, student := range m.students {
		if student.CreatedByDoctorUID == doctorUID {
			out = append(out, *student)
		}
	}
	return out, nil
}

func (m *MockStudentRepository) ListByMember(ctx context.Context, kind domain.AssignmentKind, userID string) ([]domain.Student, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Student
	for _, student := range m.students {
		members := student.Teachers
		if kind == domain.AssignParent {
			members = student.Parents
		}
		for _, member := range members {
			if member == userID {
				out = append(out, *student)
				break
			}
		}
	}
	return out, nil
}

func (m *MockStudentRepository) AddMember(ctx context.Context, studentID string, kind domain.AssignmentKind, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AddMemberCalls = append(m.AddMemberCalls, AddMemberCall{StudentID: studentID, Kind: kind, UserID: userID})

	if m.AddMemberError != nil {
		return m.AddMemberError
	}

	student, ok := m.students[studentID]
	if !ok {
		return domain.ErrNotFound
	}

	members := &student.Teachers
	if kind == domain.AssignParent {
		members = &student.Parents
	}
	for _, member := range *members {
		if member == userID {
			return nil
		}
	}
	*members = append(*members, userID)
	return nil
}
