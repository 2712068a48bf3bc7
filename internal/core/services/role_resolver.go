package services

import (
	"context"
	"log"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// RoleResolver turns a fetched profile into a routing decision. It is pure
// decision logic over already-fetched data except for one side effect: a
// single-role profile has that role persisted as the session's active role.
type RoleResolver struct {
	activeRoles ports.ActiveRoleStore
}

func NewRoleResolver(activeRoles ports.ActiveRoleStore) *RoleResolver {
	return &RoleResolver{activeRoles: activeRoles}
}

func (r *RoleResolver) Resolve(ctx context.Context, profile *domain.UserProfile) domain.RouteDecision {
	if profile == nil {
		return domain.RouteDecision{Kind: domain.RouteLogin}
	}

	roles := profile.NormalizedRoles()
	if len(roles) == 0 {
		return domain.RouteDecision{Kind: domain.RouteLogin}
	}

	if len(roles) == 1 {
		role := roles[0]
		if err := r.activeRoles.SetActiveRole(ctx, profile.ID, role); err != nil {
			// The dashboard guard re-derives the role from the profile, so a
			// failed session write degrades to an extra lookup, not a lockout.
			log.Printf("role resolver: persisting active role for %s: %v", profile.ID, err)
		}
		return domain.RouteDecision{Kind: domain.RouteDashboard, Role: role}
	}

	return domain.RouteDecision{Kind: domain.RouteChooseRole, Roles: roles}
}
