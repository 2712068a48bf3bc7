package domain

import "time"

type Role string

const (
	RoleDoctor  Role = "doctor"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

// KnownRoles lists every role the system understands, in the order the
// role-choice screen presents them.
var KnownRoles = []Role{RoleDoctor, RoleTeacher, RoleParent}

func IsKnownRole(r Role) bool {
	for _, k := range KnownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// UserProfile is the document keyed by the identity's id. Legacy profiles
// carry a single scalar LegacyRole instead of the Roles array; callers must
// go through NormalizedRoles rather than reading either field directly.
type UserProfile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Roles      []Role    `json:"roles"`
	LegacyRole Role      `json:"role,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *UserProfile) NormalizedRoles() []Role {
	return NormalizeRoles(p.Roles, p.LegacyRole)
}

func (p *UserProfile) HasRole(r Role) bool {
	for _, have := range p.NormalizedRoles() {
		if have == r {
			return true
		}
	}
	return false
}

// NormalizeRoles is the single migration point for the legacy single-role
// shape: the array field wins, a scalar is wrapped in a one-element set,
// anything else is the empty set. Duplicates are collapsed, order preserved.
func NormalizeRoles(roles []Role, legacy Role) []Role {
	var src []Role
	switch {
	case len(roles) > 0:
		src = roles
	case legacy != "":
		src = []Role{legacy}
	default:
		return nil
	}

	seen := make(map[Role]bool, len(src))
	out := make([]Role, 0, len(src))
	for _, r := range src {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// Invite is keyed by lowercased email and created by a doctor before the
// invited user registers. Consumed (read, not deleted) at registration time.
type Invite struct {
	Email              string    `json:"email"`
	Roles              []Role    `json:"roles"`
	LegacyRole         Role      `json:"role,omitempty"`
	CreatedByDoctorUID string    `json:"created_by_doctor_uid"`
	CreatedAt          time.Time `json:"created_at"`
}

func (i *Invite) NormalizedRoles() []Role {
	return NormalizeRoles(i.Roles, i.LegacyRole)
}

// Account is the identity-provider side of a user: credentials only, no
// role information. The profile document is a separate write.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller as seen by request handlers.
type Identity struct {
	UserID string
	Email  string
	Roles  []Role
}
