package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// RouterService is the dashboard router: it fetches the caller's profile
// and delegates to the role resolver, and records an explicit role choice
// for multi-role users.
type RouterService struct {
	profiles    ports.ProfileRepository
	resolver    *RoleResolver
	activeRoles ports.ActiveRoleStore
}

func NewRouterService(profiles ports.ProfileRepository, resolver *RoleResolver, activeRoles ports.ActiveRoleStore) *RouterService {
	return &RouterService{profiles: profiles, resolver: resolver, activeRoles: activeRoles}
}

var _ ports.RouterService = (*RouterService)(nil)

func (s *RouterService) Route(ctx context.Context, userID string) (domain.RouteDecision, error) {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return s.resolver.Resolve(ctx, nil), nil
		}
		return domain.RouteDecision{Kind: domain.RouteLogin}, &domain.PersistenceError{Op: "find profile", Err: err}
	}
	return s.resolver.Resolve(ctx, profile), nil
}

// ChooseRole persists the selected role and returns the dashboard decision
// for it. The role must be one the profile actually holds.
func (s *RouterService) ChooseRole(ctx context.Context, userID string, role domain.Role) (domain.RouteDecision, error) {
	login := domain.RouteDecision{Kind: domain.RouteLogin}

	if !domain.IsKnownRole(role) {
		return login, domain.ValidationError("role", "is not recognized")
	}

	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return login, domain.ErrNotFound
		}
		return login, &domain.PersistenceError{Op: "find profile", Err: err}
	}

	if !profile.HasRole(role) {
		return login, domain.ErrForbidden
	}

	if err := s.activeRoles.SetActiveRole(ctx, userID, role); err != nil {
		return login, &domain.PersistenceError{Op: "set active role", Err: err}
	}
	return domain.RouteDecision{Kind: domain.RouteDashboard, Role: role}, nil
}
