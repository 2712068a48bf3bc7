package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/test/mocks"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating test key: %v", err)
	}
	return key
}

func seedAccount(t *testing.T, accounts *mocks.MockAccountRepository, id, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	accounts.SeedAccount(&domain.Account{ID: id, Email: email, PasswordHash: string(hash)})
}

func newAuthService(t *testing.T) (*AuthService, *mocks.MockAccountRepository, *mocks.MockProfileRepository, *mocks.MockActiveRoleStore, *rsa.PrivateKey) {
	t.Helper()
	accounts := mocks.NewMockAccountRepository()
	profiles := mocks.NewMockProfileRepository()
	activeRoles := mocks.NewMockActiveRoleStore()
	key := testKey(t)
	svc := NewAuthService(accounts, profiles, NewRoleResolver(activeRoles), activeRoles, key)
	return svc, accounts, profiles, activeRoles, key
}

func TestLoginSuccess(t *testing.T) {
	svc, accounts, profiles, activeRoles, key := newAuthService(t)
	seedAccount(t, accounts, "u1", "doc@example.com", "secret")
	profiles.SeedProfile(&domain.UserProfile{ID: "u1", Email: "doc@example.com", Roles: []domain.Role{domain.RoleDoctor}})

	token, decision, err := svc.Login(context.Background(), " Doc@Example.com ", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if decision.Kind != domain.RouteDashboard || decision.Role != domain.RoleDoctor {
		t.Errorf("decision = %+v, want doctor dashboard", decision)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return &key.PublicKey, nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("minted token does not parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "u1" || claims["email"] != "doc@example.com" {
		t.Errorf("claims = %v", claims)
	}
	roles, _ := claims["roles"].([]any)
	if len(roles) != 1 || roles[0] != "doctor" {
		t.Errorf("roles claim = %v, want [doctor]", roles)
	}

	if role, err := activeRoles.GetActiveRole(context.Background(), "u1"); err != nil || role != domain.RoleDoctor {
		t.Errorf("active role = %q (%v), want doctor persisted on single-role login", role, err)
	}
}

func TestLoginMultiRoleRoutesToChoice(t *testing.T) {
	svc, accounts, profiles, _, _ := newAuthService(t)
	seedAccount(t, accounts, "u1", "mixta@example.com", "secret")
	profiles.SeedProfile(&domain.UserProfile{ID: "u1", Email: "mixta@example.com", Roles: []domain.Role{domain.RoleDoctor, domain.RoleParent}})

	_, decision, err := svc.Login(context.Background(), "mixta@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if decision.Kind != domain.RouteChooseRole {
		t.Errorf("Kind = %q, want %q", decision.Kind, domain.RouteChooseRole)
	}
	if len(decision.Roles) != 2 {
		t.Errorf("Roles = %v, want both roles offered", decision.Roles)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, accounts, _, _, _ := newAuthService(t)
	seedAccount(t, accounts, "u1", "doc@example.com", "secret")

	_, _, err := svc.Login(context.Background(), "doc@example.com", "wrong")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _, _ := newAuthService(t)

	_, _, err := svc.Login(context.Background(), "nadie@example.com", "secret")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	svc, _, _, _, _ := newAuthService(t)

	if _, _, err := svc.Login(context.Background(), "", "secret"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty email: error = %v, want ErrValidation", err)
	}
	if _, _, err := svc.Login(context.Background(), "doc@example.com", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty password: error = %v, want ErrValidation", err)
	}
}

func TestLoginOrphanedAccountRoutesToLogin(t *testing.T) {
	svc, accounts, _, _, _ := newAuthService(t)
	seedAccount(t, accounts, "u1", "huerfano@example.com", "secret")

	// Account exists, profile write never happened. The user authenticates
	// but cannot land on any dashboard.
	token, decision, err := svc.Login(context.Background(), "huerfano@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if decision.Kind != domain.RouteLogin {
		t.Errorf("Kind = %q, want %q", decision.Kind, domain.RouteLogin)
	}
	if token == "" {
		t.Error("token empty: credentials were valid")
	}
}

func TestLogoutClearsActiveRole(t *testing.T) {
	svc, _, _, activeRoles, _ := newAuthService(t)

	ctx := context.Background()
	if err := activeRoles.SetActiveRole(ctx, "u1", domain.RoleDoctor); err != nil {
		t.Fatalf("seed active role: %v", err)
	}
	if err := svc.Logout(ctx, "u1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := activeRoles.GetActiveRole(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("active role survived logout: %v", err)
	}
}
