package mocks

import (
	"context"
	"sync"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// MockActiveRoleStore implements ports.ActiveRoleStore in memory.
type MockActiveRoleStore struct {
	mu sync.RWMutex

	roles map[string]domain.Role

	SetCalls   []SetActiveRoleCall
	ClearCalls []string

	SetError   error
	GetError   error
	ClearError error
}

type SetActiveRoleCall struct {
	UserID string
	Role   domain.Role
}

var _ ports.ActiveRoleStore = (*MockActiveRoleStore)(nil)

func NewMockActiveRoleStore() *MockActiveRoleStore {
	return &MockActiveRoleStore{roles: make(map[string]domain.Role)}
}

func (m *MockActiveRoleStore) SetActiveRole(ctx context.Context, userID string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetActiveRoleCall{UserID: userID, Role: role})

	if m.SetError != nil {
		return m.SetError
	}

	m.roles[userID] = role
	return nil
}

func (m *MockActiveRoleStore) GetActiveRole(ctx context.Context, userID string) (domain.Role, error) {
	if m.GetError != nil {
		return "", m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	role, ok := m.roles[userID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return role, nil
}

func (m *MockActiveRoleStore) ClearActiveRole(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClearCalls = append(m.ClearCalls, userID)

	if m.ClearError != nil {
		return m.ClearError
	}

	delete(m.roles, userID)
	return nil
}
