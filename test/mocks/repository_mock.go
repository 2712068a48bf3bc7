// Package mocks provides mock implementations of port interfaces for
// testing. Each mock is an in-memory stand-in with call tracking and error
// injection so services can be exercised without Postgres, Redis or
// RabbitMQ.
package mocks

import (
	"context"
	"sync"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// MockAccountRepository implements ports.AccountRepository.
type MockAccountRepository struct {
	mu sync.RWMutex

	accounts map[string]*domain.Account // keyed by email

	CreateAccountCalls []domain.Account
	FindAccountCalls   []string

	CreateAccountError error
	FindAccountError   error
}

var _ ports.AccountRepository = (*MockAccountRepository)(nil)

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) SeedAccount(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Email] = account
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateAccountCalls = append(m.CreateAccountCalls, account)

	if m.CreateAccountError != nil {
		return m.CreateAccountError
	}

	m.accounts[account.Email] = &account
	return nil
}

func (m *MockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	m.FindAccountCalls = append(m.FindAccountCalls, email)
	m.mu.Unlock()

	if m.FindAccountError != nil {
		return nil, m.FindAccountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

// MockProfileRepository implements ports.ProfileRepository.
type MockProfileRepository struct {
	mu sync.RWMutex

	profiles map[string]*domain.UserProfile // keyed by user id

	CreateProfileCalls []domain.UserProfile
	FindProfileCalls   []string

	CreateProfileError error
	FindProfileError   error
}

var _ ports.ProfileRepository = (*MockProfileRepository)(nil)

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]*domain.UserProfile)}
}

func (m *MockProfileRepository) SeedProfile(profile *domain.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateProfileCalls = append(m.CreateProfileCalls, profile)

	if m.CreateProfileError != nil {
		return m.CreateProfileError
	}

	m.profiles[profile.ID] = &profile
	return nil
}

func (m *MockProfileRepository) FindProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	m.mu.Lock()
	m.FindProfileCalls = append(m.FindProfileCalls, userID)
	m.mu.Unlock()

	if m.FindProfileError != nil {
		return nil, m.FindProfileError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (m *MockProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	if m.FindProfileError != nil {
		return nil, m.FindProfileError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, profile := range m.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MockInviteRepository implements ports.InviteRepository.
type MockInviteRepository struct {
	mu sync.RWMutex

	invites map[string]*domain.Invite // keyed by lowercased email

	UpsertInviteCalls []domain.Invite
	FindInviteCalls   []string

	UpsertInviteError error
	FindInviteError   error
}

var _ ports.InviteRepository = (*MockInviteRepository)(nil)

func NewMockInviteRepository() *MockInviteRepository {
	return &MockInviteRepository{invites: make(map[string]*domain.Invite)}
}

func (m *MockInviteRepository) SeedInvite(invite *domain.Invite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites[invite.Email] = invite
}

func (m *MockInviteRepository) UpsertInvite(ctx context.Context, invite domain.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertInviteCalls = append(m.UpsertInviteCalls, invite)

	if m.UpsertInviteError != nil {
		return m.UpsertInviteError
	}

	m.invites[invite.Email] = &invite
	return nil
}

func (m *MockInviteRepository) FindInvite(ctx context.Context, email string) (*domain.Invite, error) {
	m.mu.Lock()
	m.FindInviteCalls = append(m.FindInviteCalls, email)
	m.mu.Unlock()

	if m.FindInviteError != nil {
		return nil, m.FindInviteError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	invite, ok := m.invites[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return invite, nil
}
