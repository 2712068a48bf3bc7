package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// RegistrationService creates identity accounts and seeds their profiles.
// Direct mode exists only for the first/administrative doctor account;
// invited mode copies the role set of a pre-existing invite.
type RegistrationService struct {
	accounts ports.AccountRepository
	profiles ports.ProfileRepository
	invites  ports.InviteRepository
}

func NewRegistrationService(
	accounts ports.AccountRepository,
	profiles ports.ProfileRepository,
	invites ports.InviteRepository,
) *RegistrationService {
	return &RegistrationService{accounts: accounts, profiles: profiles, invites: invites}
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func (s *RegistrationService) Register(ctx context.Context, email, password string, mode ports.RegistrationMode) (*domain.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == "" {
		return nil, domain.ValidationError("email", "is required")
	}
	if password == "" {
		return nil, domain.ValidationError("password", "is required")
	}

	// Roles are decided before the account exists, so a missing invite
	// never leaves an account behind.
	roles := []domain.Role{domain.RoleDoctor}
	if mode == ports.RegisterInvited {
		invite, err := s.invites.FindInvite(ctx, email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNoInvite
			}
			return nil, &domain.PersistenceError{Op: "find invite", Err: err}
		}
		roles = invite.NormalizedRoles()
		if len(roles) == 0 {
			// Invite exists but carries neither roles nor role.
			roles = []domain.Role{domain.RoleParent}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, &domain.PersistenceError{Op: "create account", Err: err}
	}

	profile := domain.UserProfile{
		ID:        account.ID,
		Email:     email,
		Roles:     roles,
		CreatedAt: time.Now(),
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		// The account now exists without a profile. There is no rollback;
		// the router's no-profile branch sends such users back to login.
		return nil, &domain.PersistenceError{Op: "create profile", Err: err}
	}

	return &profile, nil
}
