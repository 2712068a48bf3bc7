package ports

import (
	"context"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, decision domain.RouteDecision, err error)
	Logout(ctx context.Context, userID string) error
}

type RegistrationMode string

const (
	RegisterDirect  RegistrationMode = "direct"
	RegisterInvited RegistrationMode = "invited"
)

type RegistrationService interface {
	Register(ctx context.Context, email, password string, mode RegistrationMode) (*domain.UserProfile, error)
}

type RouterService interface {
	Route(ctx context.Context, userID string) (domain.RouteDecision, error)
	ChooseRole(ctx context.Context, userID string, role domain.Role) (domain.RouteDecision, error)
}

type RecordService interface {
	Submit(ctx context.Context, author domain.Identity, studentID string, kind domain.RecordKind, text string) (*domain.Record, error)
	ListForStudent(ctx context.Context, studentID string) ([]domain.Record, error)
	ListLatest(ctx context.Context) ([]domain.Record, error)
}

type StudentService interface {
	CreateStudent(ctx context.Context, doctorUID, fullName string) (*domain.Student, error)
	ListForViewer(ctx context.Context, viewer domain.Identity, as domain.Role) ([]domain.Student, error)
	Assign(ctx context.Context, studentID, email string, kind domain.AssignmentKind) error
	Invite(ctx context.Context, doctorUID, email string, role domain.Role) error
}
