package ports

import (
	"context"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
)

// ActiveRoleStore is the ephemeral, per-session analog of tab-scoped
// session storage: one key per user holding the chosen role, cleared on
// sign-out and expired by TTL.
type ActiveRoleStore interface {
	SetActiveRole(ctx context.Context, userID string, role domain.Role) error
	GetActiveRole(ctx context.Context, userID string) (domain.Role, error)
	ClearActiveRole(ctx context.Context, userID string) error
}
