package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
	"github.com/pensamiento-creativo/student-records-service/test/mocks"
)

func newRegistrationService() (*RegistrationService, *mocks.MockAccountRepository, *mocks.MockProfileRepository, *mocks.MockInviteRepository) {
	accounts := mocks.NewMockAccountRepository()
	profiles := mocks.NewMockProfileRepository()
	invites := mocks.NewMockInviteRepository()
	return NewRegistrationService(accounts, profiles, invites), accounts, profiles, invites
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret"},
		{"empty password", "doc@example.com", ""},
		{"whitespace only", "   ", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, accounts, _, _ := newRegistrationService()

			_, err := svc.Register(context.Background(), tt.email, tt.password, ports.RegisterDirect)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Register error = %v, want ErrValidation", err)
			}
			if len(accounts.CreateAccountCalls) != 0 {
				t.Errorf("CreateAccount called %d times, want 0", len(accounts.CreateAccountCalls))
			}
		})
	}
}

func TestRegisterDirectSeedsDoctor(t *testing.T) {
	svc, accounts, _, _ := newRegistrationService()

	profile, err := svc.Register(context.Background(), "Doc@Example.com", "secret", ports.RegisterDirect)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if profile.Email != "doc@example.com" {
		t.Errorf("Email = %q, want lowercased", profile.Email)
	}
	if want := []domain.Role{domain.RoleDoctor}; !reflect.DeepEqual(profile.Roles, want) {
		t.Errorf("Roles = %v, want %v", profile.Roles, want)
	}

	if len(accounts.CreateAccountCalls) != 1 {
		t.Fatalf("CreateAccount called %d times, want 1", len(accounts.CreateAccountCalls))
	}
	account := accounts.CreateAccountCalls[0]
	if account.ID != profile.ID {
		t.Error("profile not keyed by the account id")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret")); err != nil {
		t.Errorf("stored hash does not verify the password: %v", err)
	}
	if account.PasswordHash == "secret" {
		t.Error("password stored in the clear")
	}
}

func TestRegisterInvitedWithoutInvite(t *testing.T) {
	svc, accounts, _, _ := newRegistrationService()

	_, err := svc.Register(context.Background(), "maestra@example.com", "secret", ports.RegisterInvited)
	if !errors.Is(err, domain.ErrNoInvite) {
		t.Fatalf("Register error = %v, want ErrNoInvite", err)
	}
	if len(accounts.CreateAccountCalls) != 0 {
		t.Errorf("CreateAccount called %d times, want 0: the invite is checked first", len(accounts.CreateAccountCalls))
	}
}

func TestRegisterInvitedCopiesInviteRoles(t *testing.T) {
	svc, _, _, invites := newRegistrationService()
	invites.SeedInvite(&domain.Invite{
		Email: "maestra@example.com",
		Roles: []domain.Role{domain.RoleTeacher, domain.RoleParent},
	})

	profile, err := svc.Register(context.Background(), "Maestra@Example.com", "secret", ports.RegisterInvited)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if want := []domain.Role{domain.RoleTeacher, domain.RoleParent}; !reflect.DeepEqual(profile.Roles, want) {
		t.Errorf("Roles = %v, want %v", profile.Roles, want)
	}
}

func TestRegisterInvitedLegacyInvite(t *testing.T) {
	svc, _, _, invites := newRegistrationService()
	invites.SeedInvite(&domain.Invite{
		Email:      "madre@example.com",
		LegacyRole: domain.RoleParent,
	})

	profile, err := svc.Register(context.Background(), "madre@example.com", "secret", ports.RegisterInvited)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if want := []domain.Role{domain.RoleParent}; !reflect.DeepEqual(profile.Roles, want) {
		t.Errorf("Roles = %v, want the legacy scalar wrapped: %v", profile.Roles, want)
	}
}

func TestRegisterInvitedRolelessInviteFallsBackToParent(t *testing.T) {
	svc, _, _, invites := newRegistrationService()
	invites.SeedInvite(&domain.Invite{Email: "alguien@example.com"})

	profile, err := svc.Register(context.Background(), "alguien@example.com", "secret", ports.RegisterInvited)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if want := []domain.Role{domain.RoleParent}; !reflect.DeepEqual(profile.Roles, want) {
		t.Errorf("Roles = %v, want fallback %v", profile.Roles, want)
	}
}

func TestRegisterProfileWriteFailureLeavesAccount(t *testing.T) {
	svc, accounts, profiles, _ := newRegistrationService()
	profiles.CreateProfileError = errors.New("write failed")

	_, err := svc.Register(context.Background(), "doc@example.com", "secret", ports.RegisterDirect)

	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Register error = %v, want PersistenceError", err)
	}
	// No rollback: the orphaned account exists and the router sends the
	// user back to login on its missing profile.
	if len(accounts.CreateAccountCalls) != 1 {
		t.Errorf("CreateAccount called %d times, want 1", len(accounts.CreateAccountCalls))
	}
}
