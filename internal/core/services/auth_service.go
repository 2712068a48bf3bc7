package services

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

const tokenTTL = 24 * time.Hour

// AuthService signs users in against the stored accounts and hands back a
// session token plus the routing decision for the view they land on.
type AuthService struct {
	accounts   ports.AccountRepository
	profiles   ports.ProfileRepository
	resolver   *RoleResolver
	activeRole ports.ActiveRoleStore
	privateKey *rsa.PrivateKey
}

func NewAuthService(
	accounts ports.AccountRepository,
	profiles ports.ProfileRepository,
	resolver *RoleResolver,
	activeRole ports.ActiveRoleStore,
	privateKey *rsa.PrivateKey,
) *AuthService {
	return &AuthService{
		accounts:   accounts,
		profiles:   profiles,
		resolver:   resolver,
		activeRole: activeRole,
		privateKey: privateKey,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.RouteDecision, error) {
	login := domain.RouteDecision{Kind: domain.RouteLogin}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", login, domain.ValidationError("credentials", "are required")
	}

	account, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return "", login, domain.ErrNotFound
		}
		return "", login, &domain.PersistenceError{Op: "find account", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", login, domain.ErrForbidden
	}

	// An account without a profile is the orphaned-identity case: resolve
	// routes it back to login rather than into a dashboard.
	profile, err := s.profiles.FindProfile(ctx, account.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, domain.ErrNotFound) {
		return "", login, &domain.PersistenceError{Op: "find profile", Err: err}
	}

	decision := s.resolver.Resolve(ctx, profile)

	token, err := s.mintToken(account, profile)
	if err != nil {
		return "", login, err
	}
	return token, decision, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.activeRole.ClearActiveRole(ctx, userID)
}

func (s *AuthService) mintToken(account *domain.Account, profile *domain.UserProfile) (string, error) {
	roles := []string{}
	if profile != nil {
		for _, r := range profile.NormalizedRoles() {
			roles = append(roles, string(r))
		}
	}

	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"roles": roles,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}
