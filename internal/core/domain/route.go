package domain

// RouteKind is the outcome of resolving a profile's role set.
type RouteKind string

const (
	RouteLogin      RouteKind = "login"
	RouteDashboard  RouteKind = "dashboard"
	RouteChooseRole RouteKind = "choose-role"
)

// RouteDecision tells the caller which view to show next. Role is set only
// for RouteDashboard; Roles only for RouteChooseRole.
type RouteDecision struct {
	Kind  RouteKind `json:"kind"`
	Role  Role      `json:"role,omitempty"`
	Roles []Role    `json:"roles,omitempty"`
}

// View names the decision maps to. These are the only navigation targets;
// there is no client-side router.
const (
	ViewLogin            = "login"
	ViewRegister         = "registro"
	ViewDashboard        = "dashboard"
	ViewDashboardDoctor  = "dashboard-doctor"
	ViewDashboardTeacher = "dashboard-teacher"
	ViewDashboardParent  = "dashboard-parent"
	ViewChooseRole       = "choose-role"
)

// ViewFor maps a decision to its view name.
func (d RouteDecision) ViewFor() string {
	switch d.Kind {
	case RouteDashboard:
		switch d.Role {
		case RoleDoctor:
			return ViewDashboardDoctor
		case RoleTeacher:
			return ViewDashboardTeacher
		case RoleParent:
			return ViewDashboardParent
		}
		return ViewDashboard
	case RouteChooseRole:
		return ViewChooseRole
	default:
		return ViewLogin
	}
}
